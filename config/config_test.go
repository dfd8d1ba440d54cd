package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

var configKeys = []string{
	"PORT", "DATABASE_DSN", "JWT_SECRET", "TOKEN_TTL", "ALLOWED_ORIGINS",
	"TRUSTED_PROXIES", "GIN_MODE", "LOG_LEVEL", "DB_LOG_LEVEL", "TIMEZONE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultDSN, cfg.DatabaseDSN)
	assert.Equal(t, 8*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{DefaultOrigin}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.TrustedProxies)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, logger.Warn, cfg.DBLogLevel)
	assert.Equal(t, time.Local, cfg.Location)
	assert.True(t, cfg.DevSecret)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("TIMEZONE", "America/Sao_Paulo")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.False(t, cfg.DevSecret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.TrustedProxies)
	assert.Equal(t, logger.Silent, cfg.DBLogLevel)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location.String())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "release needs a secret", env: map[string]string{"GIN_MODE": "release"}, want: "JWT_SECRET"},
		{name: "bad port", env: map[string]string{"PORT": "http"}, want: "PORT"},
		{name: "bad ttl", env: map[string]string{"TOKEN_TTL": "eight hours"}, want: "TOKEN_TTL"},
		{name: "negative ttl", env: map[string]string{"TOKEN_TTL": "-1h"}, want: "TOKEN_TTL"},
		{name: "bad db log level", env: map[string]string{"DB_LOG_LEVEL": "loud"}, want: "DB_LOG_LEVEL"},
		{name: "bad timezone", env: map[string]string{"TIMEZONE": "Mars/Olympus"}, want: "TIMEZONE"},
		{name: "bad gin mode", env: map[string]string{"GIN_MODE": "prod"}, want: "GIN_MODE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7070\nLOG_LEVEL=debug\n"), 0o600))

	// t.Setenv restores PORT afterwards; unset it so the file can provide it.
	t.Setenv("PORT", "")
	require.NoError(t, os.Unsetenv("PORT"))
	// already-set variables win over the file
	t.Setenv("LOG_LEVEL", "error")
	require.NoError(t, LoadEnvFile(path))

	assert.Equal(t, "7070", os.Getenv("PORT"))
	assert.Equal(t, "error", os.Getenv("LOG_LEVEL"))
}
