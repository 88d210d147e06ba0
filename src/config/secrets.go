package config

import (
	"fmt"

	"portfolio-tracker/src/utils"
)

// SecretFetcher reads a secret value by id.
type SecretFetcher interface {
	GetSecretValue(secretID string) (string, error)
}

// ResolveSecrets fills credentials that are configured by secret id instead of by value.
func ResolveSecrets(cfg *Config, fetcher SecretFetcher) error {
	tiingo := &cfg.ExternalClients.Tiingo
	if tiingo.APIKey != "" || tiingo.APIKeySecretID == "" {
		return nil
	}
	if fetcher == nil {
		return fmt.Errorf("%w: no secret store to resolve %s", utils.ErrConfiguration, tiingo.APIKeySecretID)
	}
	value, err := fetcher.GetSecretValue(tiingo.APIKeySecretID)
	if err != nil {
		return fmt.Errorf("%w: read secret %s: %v", utils.ErrConfiguration, tiingo.APIKeySecretID, err)
	}
	if value == "" {
		return fmt.Errorf("%w: secret %s is empty", utils.ErrConfiguration, tiingo.APIKeySecretID)
	}
	tiingo.APIKey = value
	return nil
}

const redacted = "***"

// Redacted returns a copy of cfg that is safe to log.
func Redacted(cfg *Config) Config {
	out := *cfg
	redact(&out.Persistence.SQL.Password)
	redact(&out.Persistence.SQL.ConnectionString)
	redact(&out.Persistence.Redis.Password)
	redact(&out.Persistence.Redis.URL)
	redact(&out.ExternalClients.Tiingo.APIKey)
	return out
}

func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}
