package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
	"github.com/lithictech/suma-sub001/internal/core/services"
	"github.com/lithictech/suma-sub001/internal/dto"
	"github.com/lithictech/suma-sub001/internal/eligibility"
	"github.com/lithictech/suma-sub001/internal/handlers"
	"github.com/lithictech/suma-sub001/internal/observability/metrics"
	"github.com/lithictech/suma-sub001/internal/platform/config"
	"github.com/lithictech/suma-sub001/internal/repositories/memory"
	"github.com/lithictech/suma-sub001/internal/strategies"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

const testWebhookSecret = "test-webhook-secret"

// stepAdapter answers each Execute with the next scripted outcome.
type stepAdapter struct {
	mu       sync.Mutex
	outcomes []domain.StrategyOutcome
	calls    int
}

func (a *stepAdapter) RetryOnTimeout() bool { return false }

func (a *stepAdapter) Execute(context.Context, domain.Settleable) (domain.StrategyOutcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.outcomes[min(a.calls, len(a.outcomes)-1)]
	a.calls++
	return out, nil
}

func (a *stepAdapter) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// memGuard is an in-process ReplayGuard.
type memGuard struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (g *memGuard) Claim(_ context.Context, eventID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen[eventID] {
		return false, nil
	}
	g.seen[eventID] = true
	return true, nil
}

func (g *memGuard) Release(_ context.Context, eventID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen, eventID)
	return nil
}

func (g *memGuard) Has(eventID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seen[eventID]
}

type WebhookHandlerTestSuite struct {
	suite.Suite
	ctx      context.Context
	router   *gin.Engine
	svc      *portssvc.ServiceContainer
	adapter  *stepAdapter
	guard    *memGuard
	registry *prometheus.Registry
}

func (s *WebhookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.ctx = context.Background()
	s.adapter = &stepAdapter{outcomes: []domain.StrategyOutcome{domain.Pending("proc-1"), domain.Success("proc-1")}}
	s.guard = &memGuard{seen: make(map[string]bool)}
	s.registry = prometheus.NewRegistry()
	recorder := metrics.New(s.registry)

	resolver := strategies.NewRegistry()
	resolver.Register(domain.StrategyFake, s.adapter)
	s.svc = services.NewServiceContainer(
		memory.NewStore(),
		resolver,
		eligibility.AllowAll{},
		services.ContainerConfig{Currencies: domain.NewCurrencySet("USD"), StrategyTimeout: time.Second},
		services.WithMetrics(recorder),
	)

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, &config.Config{WebhookJWTSecret: testWebhookSecret}, s.svc, handlers.Infra{
		Guard:    s.guard,
		Metrics:  recorder,
		Gatherer: s.registry,
	})
}

func TestWebhookHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlerTestSuite))
}

func (s *WebhookHandlerTestSuite) token(subject string, expiresIn time.Duration) string {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testWebhookSecret))
	s.Require().NoError(err)
	return signed
}

func (s *WebhookHandlerTestSuite) post(path, eventID, token string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if eventID != "" {
		req.Header.Set(handlers.EventIDHeader, eventID)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// pendingFunding creates a funding transaction left submitted by a pending outcome.
func (s *WebhookHandlerTestSuite) pendingFunding() *domain.FundingTransaction {
	account, err := s.svc.Ledger.OpenAccount(s.ctx, domain.CustomerOwner("member-1"))
	s.Require().NoError(err)
	funding, err := s.svc.Settlement.CreateFunding(s.ctx, dto.CreateFundingRequest{
		AccountID: account.AccountID,
		Amount:    domain.NewMoney(2500, "USD"),
		Strategy:  domain.FakeStrategy{},
		Memo:      domain.NewText("Top up"),
	})
	s.Require().NoError(err)
	funding, err = s.svc.Settlement.SubmitFunding(s.ctx, funding.ID, nil)
	s.Require().NoError(err)
	s.Require().Equal(domain.StatusSubmitted, funding.Status)
	return funding
}

func decode(s *WebhookHandlerTestSuite, w *httptest.ResponseRecorder) dto.SettlementResponse {
	var resp dto.SettlementResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *WebhookHandlerTestSuite) TestFundingEvent_Settles() {
	funding := s.pendingFunding()

	w := s.post("/webhooks/funding/"+funding.ID, "evt-1", s.token("ach-processor", time.Hour),
		dto.WebhookEvent{EventType: "transfer.completed", ExternalRef: "proc-1"})

	s.Equal(http.StatusOK, w.Code, w.Body.String())
	resp := decode(s, w)
	s.Equal(funding.ID, resp.ID)
	s.Equal(string(domain.SubjectFunding), resp.Kind)
	s.Equal(string(domain.StatusSettled), resp.Status)
	s.Equal("proc-1", resp.ExternalRef)
	s.False(resp.Replayed)
	s.Equal(2, s.adapter.Calls())
	s.True(s.guard.Has("evt-1"))
}

func (s *WebhookHandlerTestSuite) TestFundingEvent_ReplayIsNotReprocessed() {
	funding := s.pendingFunding()
	token := s.token("ach-processor", time.Hour)
	event := dto.WebhookEvent{EventType: "transfer.completed"}

	first := s.post("/webhooks/funding/"+funding.ID, "evt-2", token, event)
	s.Require().Equal(http.StatusOK, first.Code)

	replay := s.post("/webhooks/funding/"+funding.ID, "evt-2", token, event)
	s.Equal(http.StatusOK, replay.Code)
	resp := decode(s, replay)
	s.True(resp.Replayed)
	s.Equal(string(domain.StatusSettled), resp.Status)
	s.Equal(2, s.adapter.Calls())

	expected := `
# HELP suma_ledger_webhook_replays_total Total webhook deliveries dropped as replays
# TYPE suma_ledger_webhook_replays_total counter
suma_ledger_webhook_replays_total 1
`
	s.NoError(testutil.GatherAndCompare(s.registry, strings.NewReader(expected), "suma_ledger_webhook_replays_total"))
}

func (s *WebhookHandlerTestSuite) TestFundingEvent_WithoutEventIDStillRefreshes() {
	funding := s.pendingFunding()

	w := s.post("/webhooks/funding/"+funding.ID, "", s.token("ach-processor", time.Hour),
		dto.WebhookEvent{EventType: "transfer.completed"})

	s.Equal(http.StatusOK, w.Code)
	s.Equal(string(domain.StatusSettled), decode(s, w).Status)
}

func (s *WebhookHandlerTestSuite) TestUnknownSubjectReleasesEvent() {
	w := s.post("/webhooks/payout/does-not-exist", "evt-3", s.token("card-processor", time.Hour),
		dto.WebhookEvent{EventType: "refund.completed"})

	s.Equal(http.StatusNotFound, w.Code)
	s.False(s.guard.Has("evt-3"))
}

func (s *WebhookHandlerTestSuite) TestBadPayload() {
	w := s.post("/webhooks/funding/any", "evt-4", s.token("ach-processor", time.Hour), map[string]string{})
	s.Equal(http.StatusBadRequest, w.Code)
	s.False(s.guard.Has("evt-4"))
}

func (s *WebhookHandlerTestSuite) TestAuthentication() {
	event := dto.WebhookEvent{EventType: "transfer.completed"}

	s.Equal(http.StatusUnauthorized, s.post("/webhooks/funding/any", "", "", event).Code)
	s.Equal(http.StatusUnauthorized, s.post("/webhooks/funding/any", "", s.token("ach-processor", -time.Minute), event).Code)
	s.Equal(http.StatusUnauthorized, s.post("/webhooks/funding/any", "", s.token("", time.Hour), event).Code)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "ach-processor"}).
		SignedString([]byte("some-other-secret"))
	s.Require().NoError(err)
	s.Equal(http.StatusUnauthorized, s.post("/webhooks/funding/any", "", forged, event).Code)
}

func (s *WebhookHandlerTestSuite) TestHealthAndMetrics() {
	s.pendingFunding()

	health := httptest.NewRecorder()
	s.router.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, health.Code)
	s.Equal("OK", health.Body.String())

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "suma_ledger_strategy_latency_seconds")
}
