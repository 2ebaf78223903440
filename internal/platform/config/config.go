package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultWebhookSecret = "default_insecure_webhook_secret_please_change_this_!@#$"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	// Ledger
	PlatformCurrency    string
	SupportedCurrencies []string
	StrategyTimeout     time.Duration

	// Webhook ingress
	WebhookJWTSecret string
	WebhookRateLimit string // ulule/limiter format, e.g. "100-M"

	// Replay guard; disabled when RedisAddr is empty.
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	WebhookReplayTTL time.Duration

	TriggersFile string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("PLATFORM_CURRENCY", "USD")
	viper.SetDefault("SUPPORTED_CURRENCIES", "USD")
	viper.SetDefault("STRATEGY_TIMEOUT", "30s")
	viper.SetDefault("WEBHOOK_JWT_SECRET", "")
	viper.SetDefault("WEBHOOK_RATE_LIMIT", "100-M")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("WEBHOOK_REPLAY_TTL", "72h")
	viper.SetDefault("TRIGGERS_FILE", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.PlatformCurrency = strings.ToUpper(strings.TrimSpace(viper.GetString("PLATFORM_CURRENCY")))
	cfg.SupportedCurrencies = splitList(viper.GetString("SUPPORTED_CURRENCIES"))
	if len(cfg.SupportedCurrencies) > 0 && !contains(cfg.SupportedCurrencies, cfg.PlatformCurrency) {
		log.Printf("Warning: PLATFORM_CURRENCY %s is not in SUPPORTED_CURRENCIES. Adding it.\n", cfg.PlatformCurrency)
		cfg.SupportedCurrencies = append(cfg.SupportedCurrencies, cfg.PlatformCurrency)
	}
	cfg.StrategyTimeout = durationOrDefault("STRATEGY_TIMEOUT", 30*time.Second)

	cfg.WebhookJWTSecret = viper.GetString("WEBHOOK_JWT_SECRET")
	if cfg.WebhookJWTSecret == "" {
		log.Println("Warning: WEBHOOK_JWT_SECRET is not set, using default insecure secret. THIS IS NOT FOR PRODUCTION.")
		cfg.WebhookJWTSecret = defaultWebhookSecret
	}
	cfg.WebhookRateLimit = viper.GetString("WEBHOOK_RATE_LIMIT")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")
	cfg.WebhookReplayTTL = durationOrDefault("WEBHOOK_REPLAY_TTL", 72*time.Hour)

	cfg.TriggersFile = viper.GetString("TRIGGERS_FILE")

	return cfg, nil
}

// durationOrDefault parses a duration key (e.g. "60s", "1h"), warning on invalid values.
func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
