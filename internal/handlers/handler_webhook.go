package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
	"github.com/lithictech/suma-sub001/internal/dto"
	"github.com/lithictech/suma-sub001/internal/middleware"
	"github.com/lithictech/suma-sub001/internal/observability/metrics"
)

// EventIDHeader carries the processor's unique id for a webhook delivery.
const EventIDHeader = "X-Webhook-Event-ID"

// webhookHandler turns processor callbacks into settlement refreshes.
type webhookHandler struct {
	settlement portssvc.SettlementSvc
	guard      ReplayGuard
	metrics    *metrics.Recorder
}

func registerWebhookRoutes(rg *gin.RouterGroup, settlement portssvc.SettlementSvc, infra Infra) {
	h := &webhookHandler{settlement: settlement, guard: infra.Guard, metrics: infra.Metrics}

	rg.POST("/funding/:id", h.fundingEvent)
	rg.POST("/payout/:id", h.payoutEvent)
}

// settlementOps abstracts over the funding and payout variants of the service.
type settlementOps struct {
	kind    domain.SubjectKind
	get     func(ctx context.Context, id string) (domain.Settleable, error)
	refresh func(ctx context.Context, id string) (domain.Settleable, error)
}

func (h *webhookHandler) fundingEvent(c *gin.Context) {
	h.handle(c, settlementOps{
		kind: domain.SubjectFunding,
		get: func(ctx context.Context, id string) (domain.Settleable, error) {
			return h.settlement.GetFunding(ctx, id)
		},
		refresh: func(ctx context.Context, id string) (domain.Settleable, error) {
			return h.settlement.RefreshFunding(ctx, id)
		},
	})
}

func (h *webhookHandler) payoutEvent(c *gin.Context) {
	h.handle(c, settlementOps{
		kind: domain.SubjectPayout,
		get: func(ctx context.Context, id string) (domain.Settleable, error) {
			return h.settlement.GetPayout(ctx, id)
		},
		refresh: func(ctx context.Context, id string) (domain.Settleable, error) {
			return h.settlement.RefreshPayout(ctx, id)
		},
	})
}

func (h *webhookHandler) handle(c *gin.Context, ops settlementOps) {
	ctx := c.Request.Context()
	id := c.Param("id")
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("subject_kind", string(ops.kind)),
		slog.String("subject_id", id),
	)

	var event dto.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		logger.Warn("Failed to bind webhook payload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	eventID := c.GetHeader(EventIDHeader)
	logger = logger.With(slog.String("event_type", event.EventType), slog.String("event_id", eventID))

	claimed := false
	if h.guard != nil && eventID != "" {
		first, err := h.guard.Claim(ctx, eventID)
		switch {
		case err != nil:
			logger.Error("Replay guard unavailable", slog.String("error", err.Error()))
		case !first:
			h.metrics.WebhookReplay()
			logger.Info("Webhook event already processed")
			current, err := ops.get(ctx, id)
			if err != nil {
				h.respondError(c, logger, err)
				return
			}
			c.JSON(http.StatusOK, dto.ToSettlementResponse(current, true))
			return
		default:
			claimed = true
		}
	}

	updated, err := ops.refresh(ctx, id)
	if err != nil {
		if claimed {
			if relErr := h.guard.Release(ctx, eventID); relErr != nil {
				logger.Error("Failed to release webhook event", slog.String("error", relErr.Error()))
			}
		}
		h.respondError(c, logger, err)
		return
	}

	logger.Info("Webhook processed",
		slog.String("status", string(updated.Base().Status)),
		slog.String("external_ref", updated.Base().ExternalRef))
	c.JSON(http.StatusOK, dto.ToSettlementResponse(updated, false))
}

func (h *webhookHandler) respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Webhook subject not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error handling webhook", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflict handling webhook", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to handle webhook", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
	}
}
