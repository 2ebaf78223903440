package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/lithictech/suma-sub001/internal/adapters/redisguard"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	"github.com/lithictech/suma-sub001/internal/core/services"
	"github.com/lithictech/suma-sub001/internal/eligibility"
	"github.com/lithictech/suma-sub001/internal/handlers"
	"github.com/lithictech/suma-sub001/internal/middleware"
	"github.com/lithictech/suma-sub001/internal/observability/metrics"
	"github.com/lithictech/suma-sub001/internal/platform/config"
	"github.com/lithictech/suma-sub001/internal/repositories/database/pgsql"
	"github.com/lithictech/suma-sub001/internal/strategies"
	"github.com/lithictech/suma-sub001/internal/utils/seed"
	"github.com/lithictech/suma-sub001/pkg/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := middleware.WithLogger(context.Background(), logger)

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
	if err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if applied {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(registry)

	// Only the fake and off-platform strategies are served; ACH and card
	// fundings are rejected at creation until processor clients are wired.
	resolver := strategies.NewDefaultRegistry(nil, nil)

	container := services.NewServiceContainer(
		pgsql.NewStore(dbPool),
		resolver,
		eligibility.AllowAll{},
		services.ContainerConfig{
			Currencies:      domain.NewCurrencySet(cfg.SupportedCurrencies...),
			StrategyTimeout: cfg.StrategyTimeout,
		},
		services.WithMetrics(recorder),
	)

	if _, err := container.Ledger.PlatformLedger(ctx, cfg.PlatformCurrency); err != nil {
		logger.Error("Failed to open platform ledger", slog.String("currency", cfg.PlatformCurrency), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.TriggersFile != "" {
		defs, err := seed.LoadTriggersFile(cfg.TriggersFile)
		if err != nil {
			logger.Error("Failed to load triggers file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if _, err := seed.NewLoader(container.Ledger, container.Trigger).Apply(ctx, defs); err != nil {
			logger.Error("Failed to seed payment triggers", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	infra := handlers.Infra{Metrics: recorder, Gatherer: registry}
	if rdb := redisguard.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		defer rdb.Close()
		infra.Guard = redisguard.New(rdb, cfg.WebhookReplayTTL)
	}
	rate, err := limiter.NewRateFromFormatted(cfg.WebhookRateLimit)
	if err != nil {
		logger.Error("Invalid WEBHOOK_RATE_LIMIT", slog.String("value", cfg.WebhookRateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	infra.Limiter = limiter.New(limitermemory.NewStore(), rate)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, infra)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
