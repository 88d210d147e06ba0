package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"portfolio-tracker/src/auth/authtest"
	"portfolio-tracker/src/config"
	"portfolio-tracker/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "appsettings.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadSettings(t *testing.T) {
	t.Run("valid settings", func(t *testing.T) {
		dir := writeSettings(t, `
auth:
  provider: kinde
  issuer: https://acme.kinde.com
persistence:
  driver: memory
externalClients:
  tiingo:
    apiKey: key
logging:
  level: warn
`)
		cfg, logger, err := loadSettings(dir)
		require.NoError(t, err)
		assert.Equal(t, "kinde", cfg.Auth.Provider)
		assert.Equal(t, "warning", logger.GetLevel().String())
	})

	t.Run("missing issuer is a configuration error", func(t *testing.T) {
		dir := writeSettings(t, `
persistence:
  driver: memory
externalClients:
  tiingo:
    apiKey: key
`)
		_, _, err := loadSettings(dir)
		assert.ErrorIs(t, err, utils.ErrConfiguration)
	})

	t.Run("unknown log level is a configuration error", func(t *testing.T) {
		dir := writeSettings(t, `
logging:
  level: loud
`)
		_, _, err := loadSettings(dir)
		assert.ErrorIs(t, err, utils.ErrConfiguration)
	})
}

func TestNewServer(t *testing.T) {
	iss := authtest.NewIssuer(t, "key-1")
	cfg := &config.Config{
		Auth: config.AuthConfig{Provider: "custom", Issuer: iss.URL(), JWKSPath: authtest.JWKSPath, EchoClaims: []string{"email"}},
		Persistence: config.PersistenceConfig{Driver: config.MemoryDriver},
		ExternalClients: config.ExternalClientConfig{
			Tiingo: config.TiingoConfig{BaseURL: "http://127.0.0.1:1", APIKey: "key"},
		},
	}

	server, cleanup, err := newServer(context.Background(), cfg, utils.NewNopLogger())
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, 0, iss.Fetches())

	req := httptest.NewRequest(http.MethodGet, "/api/private", nil)
	req.Header.Set("Authorization", "Bearer "+iss.Sign(t, "key-1", authtest.Claims{Subject: "u1", Extra: map[string]any{"email": "u1@example.com"}}))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"u1@example.com"`)
	assert.Equal(t, 1, iss.Fetches())
}
