package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
	"github.com/lithictech/suma-sub001/internal/middleware"
	"github.com/lithictech/suma-sub001/internal/observability/metrics"
	"github.com/lithictech/suma-sub001/internal/platform/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"
)

// ReplayGuard deduplicates webhook deliveries by event id.
type ReplayGuard interface {
	// Claim reports whether this is the first delivery of eventID.
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

// Infra carries the process-level collaborators of the HTTP surface.
// Guard and Limiter are optional.
type Infra struct {
	Guard    ReplayGuard
	Limiter  *limiter.Limiter
	Metrics  *metrics.Recorder
	Gatherer prometheus.Gatherer
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	infra Infra,
) {
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if infra.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(infra.Gatherer, promhttp.HandlerOpts{})))
	}

	setupWebhookRoutes(r, cfg, services, infra)
}

// setupWebhookRoutes configures the /webhooks group used by payment processors.
func setupWebhookRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	infra Infra,
) {
	webhooks := r.Group("/webhooks", middleware.WebhookAuthMiddleware(cfg.WebhookJWTSecret))
	if infra.Limiter != nil {
		webhooks.Use(middleware.RateLimit(infra.Limiter))
	}
	registerWebhookRoutes(webhooks, services.Settlement, infra)
}
