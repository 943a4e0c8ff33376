package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSecret = "config-test-secret-with-enough-entropy-ok"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TRADEFAIR_DATABASE_URL", "postgres://localhost:5432/tradefair_test")
	t.Setenv("TRADEFAIR_AUTH_JWT_SECRET", validSecret)
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, 5, cfg.Trade.DailyProposalLimit)
	assert.Equal(t, 2, cfg.Trade.CounterpartProposalLimit)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TRADEFAIR_SERVER_PORT", "9090")
	t.Setenv("TRADEFAIR_SERVER_LOG_LEVEL", "debug")
	t.Setenv("TRADEFAIR_TRADE_DAILY_PROPOSAL_LIMIT", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 10, cfg.Trade.DailyProposalLimit)
	assert.Equal(t, "postgres://localhost:5432/tradefair_test", cfg.Database.URL)
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	t.Setenv("TRADEFAIR_DATABASE_URL", "postgres://localhost:5432/tradefair_test")
	t.Setenv("TRADEFAIR_AUTH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("TRADEFAIR_DATABASE_URL", "postgres://localhost:5432/tradefair_test")
	t.Setenv("TRADEFAIR_AUTH_JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TRADEFAIR_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
