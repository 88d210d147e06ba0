package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"portfolio-tracker/src/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Service         ServiceConfig        `mapstructure:"service"`
	Logging         LoggingConfig        `mapstructure:"logging"`
	Auth            AuthConfig           `mapstructure:"auth"`
	Persistence     PersistenceConfig    `mapstructure:"persistence"`
	ExternalClients ExternalClientConfig `mapstructure:"externalClients"`
	AWS             AWSConfig            `mapstructure:"aws"`
	CORS            CORSConfig           `mapstructure:"cors"`
}

type ServiceConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	ToFile   bool   `mapstructure:"toFile"`
	FilePath string `mapstructure:"filePath"`
}

// AuthConfig describes the single trusted token issuer of a deployment.
type AuthConfig struct {
	Provider     string        `mapstructure:"provider"`
	Issuer       string        `mapstructure:"issuer"`
	JWKSPath     string        `mapstructure:"jwksPath"`
	EchoClaims   []string      `mapstructure:"echoClaims"`
	ClockSkew    time.Duration `mapstructure:"clockSkew"`
	KeyCacheTTL  time.Duration `mapstructure:"keyCacheTTL"`
	FetchTimeout time.Duration `mapstructure:"fetchTimeout"`
}

type PersistenceDriver string

const (
	PostgresDriver PersistenceDriver = "postgres"
	RedisDriver    PersistenceDriver = "redis"
	MemoryDriver   PersistenceDriver = "memory"
)

type PersistenceConfig struct {
	Driver        PersistenceDriver `mapstructure:"driver"`
	RunMigrations bool              `mapstructure:"runMigrations"`
	SQL           SQLConfig         `mapstructure:"sql"`
	Redis         RedisConfig       `mapstructure:"redis"`
}

type SQLConfig struct {
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
	MaxConns         int32  `mapstructure:"maxConns"`
	MinConns         int32  `mapstructure:"minConns"`
}

type RedisConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	TLS      bool   `mapstructure:"tls"`
}

type ExternalClientConfig struct {
	Tiingo TiingoConfig `mapstructure:"tiingo"`
}

type TiingoConfig struct {
	BaseURL        string        `mapstructure:"baseUrl"`
	APIKey         string        `mapstructure:"apiKey"`
	APIKeySecretID string        `mapstructure:"apiKeySecretId"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

const EnvPrefix = "PORTFOLIO"

var defaults = map[string]any{
	"service.port":                          "8000",
	"service.readTimeout":                   30 * time.Second,
	"service.writeTimeout":                  30 * time.Second,
	"service.shutdownTimeout":               10 * time.Second,
	"logging.level":                         "info",
	"logging.toFile":                        false,
	"logging.filePath":                      "",
	"auth.provider":                         "auth0",
	"auth.issuer":                           "",
	"auth.jwksPath":                         "",
	"auth.echoClaims":                       []string{},
	"auth.clockSkew":                        30 * time.Second,
	"auth.keyCacheTTL":                      time.Hour,
	"auth.fetchTimeout":                     5 * time.Second,
	"persistence.driver":                    string(PostgresDriver),
	"persistence.runMigrations":             false,
	"persistence.sql.host":                  "",
	"persistence.sql.port":                  "5432",
	"persistence.sql.username":              "",
	"persistence.sql.password":              "",
	"persistence.sql.database":              "",
	"persistence.sql.connection_string":     "",
	"persistence.sql.maxConns":              5,
	"persistence.sql.minConns":              1,
	"persistence.redis.url":                 "",
	"persistence.redis.host":                "",
	"persistence.redis.port":                "6379",
	"persistence.redis.username":            "",
	"persistence.redis.password":            "",
	"persistence.redis.database":            0,
	"persistence.redis.tls":                 false,
	"externalClients.tiingo.baseUrl":        "https://api.tiingo.com",
	"externalClients.tiingo.apiKey":         "",
	"externalClients.tiingo.apiKeySecretId": "",
	"externalClients.tiingo.timeout":        10 * time.Second,
	"aws.region":                            "us-east-1",
	"cors.allowedOrigins":                   []string{},
}

// LoadConfig reads appsettings.yaml from path (optional), a .env file (optional) and
// PORTFOLIO_* environment variables, in increasing order of precedence.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AddConfigPath(path)
	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: read settings: %v", utils.ErrConfiguration, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: decode settings: %v", utils.ErrConfiguration, err)
	}
	return &cfg, nil
}

// Validate reports the first missing or malformed required option.
func (c *Config) Validate() error {
	if c.Auth.Issuer == "" {
		return fmt.Errorf("%w: auth.issuer is required", utils.ErrConfiguration)
	}
	if err := ValidateIssuerURL(c.Auth.Issuer); err != nil {
		return err
	}
	switch c.Auth.Provider {
	case "auth0", "kinde":
	case "custom":
		if c.Auth.JWKSPath == "" {
			return fmt.Errorf("%w: auth.jwksPath is required for the custom provider", utils.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown auth.provider %q", utils.ErrConfiguration, c.Auth.Provider)
	}

	if c.ExternalClients.Tiingo.APIKey == "" && c.ExternalClients.Tiingo.APIKeySecretID == "" {
		return fmt.Errorf("%w: externalClients.tiingo.apiKey is required", utils.ErrConfiguration)
	}
	if c.ExternalClients.Tiingo.BaseURL == "" {
		return fmt.Errorf("%w: externalClients.tiingo.baseUrl is required", utils.ErrConfiguration)
	}

	switch c.Persistence.Driver {
	case PostgresDriver:
		if c.Persistence.SQL.ConnectionString == "" && c.Persistence.SQL.Host == "" {
			return fmt.Errorf("%w: persistence.sql.connection_string or persistence.sql.host is required", utils.ErrConfiguration)
		}
	case RedisDriver:
		if c.Persistence.Redis.URL == "" && c.Persistence.Redis.Host == "" {
			return fmt.Errorf("%w: persistence.redis.url or persistence.redis.host is required", utils.ErrConfiguration)
		}
	case MemoryDriver:
	default:
		return fmt.Errorf("%w: unknown persistence.driver %q", utils.ErrConfiguration, c.Persistence.Driver)
	}
	return nil
}

// ValidateIssuerURL checks that issuer is an absolute http(s) URL.
func ValidateIssuerURL(issuer string) error {
	u, err := url.Parse(issuer)
	if err != nil {
		return fmt.Errorf("%w: malformed issuer %q: %v", utils.ErrConfiguration, issuer, err)
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("%w: issuer %q must be an absolute http(s) URL", utils.ErrConfiguration, issuer)
	}
	return nil
}

// PostgresDSN returns the configured connection string, building one from the
// discrete fields when none is set.
func (c SQLConfig) PostgresDSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.Username, c.Password, c.Database, c.Port)
}
