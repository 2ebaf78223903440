package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Empty variables count as unset, so defaults apply.
	t.Setenv("PGSQL_URL", "")
	t.Setenv("STRATEGY_TIMEOUT", "")
	t.Setenv("SUPPORTED_CURRENCIES", "")
	t.Setenv("PLATFORM_CURRENCY", "")
	t.Setenv("WEBHOOK_JWT_SECRET", "")
	t.Setenv("WEBHOOK_REPLAY_TTL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.StrategyTimeout)
	assert.Equal(t, 72*time.Hour, cfg.WebhookReplayTTL)
	assert.Equal(t, defaultWebhookSecret, cfg.WebhookJWTSecret)
	assert.Equal(t, "USD", cfg.PlatformCurrency)
	assert.Equal(t, []string{"USD"}, cfg.SupportedCurrencies)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PLATFORM_CURRENCY", "usd")
	t.Setenv("SUPPORTED_CURRENCIES", "eur, cad")
	t.Setenv("STRATEGY_TIMEOUT", "5s")
	t.Setenv("WEBHOOK_JWT_SECRET", "s3cret")
	t.Setenv("WEBHOOK_REPLAY_TTL", "not-a-duration")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "USD", cfg.PlatformCurrency)
	assert.Equal(t, []string{"EUR", "CAD", "USD"}, cfg.SupportedCurrencies)
	assert.Equal(t, 5*time.Second, cfg.StrategyTimeout)
	assert.Equal(t, "s3cret", cfg.WebhookJWTSecret)
	assert.Equal(t, 72*time.Hour, cfg.WebhookReplayTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
}
