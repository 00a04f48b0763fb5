package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnvs is a helper that sets multiple env vars for the test's lifetime.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

const strongAccessSecret = "access-secret-key-for-production-use-0123456789"
const strongRefreshSecret = "refresh-secret-key-for-production-use-0123456789"

func TestLoad_Defaults(t *testing.T) {
	setEnvs(t, map[string]string{"ENVIRONMENT": "development"})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, 15*time.Minute, cfg.AccessExpiry())
	assert.Equal(t, 240*time.Hour, cfg.RefreshExpiry())
	assert.Equal(t, "memory", cfg.StorageBackend)
}

func TestLoad_Development_AcceptsDefaultSecrets(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":          "development",
		"ACCESS_TOKEN_SECRET":  defaultDevSecret,
		"REFRESH_TOKEN_SECRET": defaultDevSecret,
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, defaultDevSecret, cfg.AccessTokenSecret)
}

func TestLoad_Production_RejectsDefaultSecret(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":          "production",
		"ACCESS_TOKEN_SECRET":  defaultDevSecret,
		"REFRESH_TOKEN_SECRET": strongRefreshSecret,
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_SECRET must be explicitly set")
}

func TestLoad_Production_RejectsShortSecret(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":          "production",
		"ACCESS_TOKEN_SECRET":  strongAccessSecret,
		"REFRESH_TOKEN_SECRET": "short-refresh-secret",
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestLoad_Production_RejectsSharedSecret(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":          "production",
		"ACCESS_TOKEN_SECRET":  strongAccessSecret,
		"REFRESH_TOKEN_SECRET": strongAccessSecret,
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestLoad_Production_AcceptsStrongDistinctSecrets(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":          "production",
		"ACCESS_TOKEN_SECRET":  strongAccessSecret,
		"REFRESH_TOKEN_SECRET": strongRefreshSecret,
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, strongAccessSecret, cfg.AccessTokenSecret)
	assert.Equal(t, strongRefreshSecret, cfg.RefreshTokenSecret)
}

func TestLoad_RejectsRefreshExpiryNotLongerThanAccess(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":          "development",
		"ACCESS_TOKEN_EXPIRY":  "1h",
		"REFRESH_TOKEN_EXPIRY": "30m",
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be longer than")
}

func TestLoad_RejectsInvalidExpiry(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":         "development",
		"ACCESS_TOKEN_EXPIRY": "soon",
	})

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse access token expiry")
}

func TestLoad_RejectsInvalidPort(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT": "development",
		"HTTP_PORT":   "70000",
	})

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_RejectsUnknownStorageBackend(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":     "development",
		"STORAGE_BACKEND": "s3",
	})

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestPostgresDSN(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":       "development",
		"POSTGRES_HOST":     "db.internal",
		"POSTGRES_PORT":     "5433",
		"POSTGRES_USER":     "svc",
		"POSTGRES_PASSWORD": "pw",
		"POSTGRES_DB":       "accounts",
		"POSTGRES_SSL_MODE": "require",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "postgres://svc:pw@db.internal:5433/accounts?sslmode=require", cfg.PostgresDSN())
}
