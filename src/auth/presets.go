package auth

import (
	"fmt"

	"portfolio-tracker/src/config"
	"portfolio-tracker/src/utils"
)

// IssuerPreset captures what differs between supported identity providers.
type IssuerPreset struct {
	DiscoveryPath string
	EchoClaims    []string
}

var presets = map[string]IssuerPreset{
	"auth0": {
		DiscoveryPath: "/.well-known/jwks.json",
		EchoClaims:    []string{"name", "email", "picture"},
	},
	"kinde": {
		DiscoveryPath: "/.well-known/jwks",
		EchoClaims:    []string{"email", "given_name", "family_name", "roles", "org_code"},
	},
}

// PresetFor resolves the preset of cfg.Provider. Explicit jwksPath and echoClaims
// settings take precedence over the preset values.
func PresetFor(cfg config.AuthConfig) (IssuerPreset, error) {
	var preset IssuerPreset
	if cfg.Provider != "custom" {
		p, ok := presets[cfg.Provider]
		if !ok {
			return IssuerPreset{}, fmt.Errorf("%w: unknown auth provider %q", utils.ErrConfiguration, cfg.Provider)
		}
		preset = p
	}
	if cfg.JWKSPath != "" {
		preset.DiscoveryPath = cfg.JWKSPath
	}
	if len(cfg.EchoClaims) > 0 {
		preset.EchoClaims = cfg.EchoClaims
	}
	if preset.DiscoveryPath == "" {
		return IssuerPreset{}, fmt.Errorf("%w: no key discovery path for provider %q", utils.ErrConfiguration, cfg.Provider)
	}
	return preset, nil
}

// NewFromConfig builds the resolver and verifier for the configured issuer.
func NewFromConfig(cfg config.AuthConfig, opts ...KeyResolverOption) (*Verifier, IssuerPreset, error) {
	preset, err := PresetFor(cfg)
	if err != nil {
		return nil, IssuerPreset{}, err
	}
	if cfg.FetchTimeout > 0 {
		opts = append(opts, WithFetchTimeout(cfg.FetchTimeout))
	}
	if cfg.KeyCacheTTL > 0 {
		opts = append(opts, WithCacheTTL(cfg.KeyCacheTTL))
	}
	resolver, err := NewKeyResolver(cfg.Issuer, preset.DiscoveryPath, opts...)
	if err != nil {
		return nil, IssuerPreset{}, err
	}
	return NewVerifier(resolver, cfg.Issuer, WithClockSkew(cfg.ClockSkew)), preset, nil
}
