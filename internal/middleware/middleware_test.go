package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lithictech/suma-sub001/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signed(t *testing.T, secret, subject string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestWebhookAuthMiddleware_SetsProcessorID(t *testing.T) {
	r := gin.New()
	r.GET("/hook", middleware.WebhookAuthMiddleware("secret"), func(c *gin.Context) {
		id, ok := middleware.GetProcessorIDFromContext(c.Request.Context())
		require.True(t, ok)
		c.String(http.StatusOK, id)
	})

	req := httptest.NewRequest(http.MethodGet, "/hook", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, "secret", "ach-processor"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ach-processor", w.Body.String())
}

func TestWebhookAuthMiddleware_RejectsMalformedHeader(t *testing.T) {
	r := gin.New()
	r.GET("/hook", middleware.WebhookAuthMiddleware("secret"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, header := range []string{"Token abc", "Bearer", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/hook", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestRateLimit_KeysByProcessor(t *testing.T) {
	rate := limiter.Rate{Period: time.Minute, Limit: 2}
	instance := limiter.New(memory.NewStore(), rate)

	r := gin.New()
	r.GET("/hook", middleware.WebhookAuthMiddleware("secret"), middleware.RateLimit(instance), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	call := func(subject string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/hook", nil)
		req.Header.Set("Authorization", "Bearer "+signed(t, "secret", subject))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, call("ach").Code)
	second := call("ach")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, call("ach").Code)

	// Another processor has its own budget.
	assert.Equal(t, http.StatusOK, call("card").Code)
}

func TestStructuredLoggingMiddleware_PropagatesRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(base))
	r.GET("/ping", func(c *gin.Context) {
		middleware.GetLoggerFromCtx(c.Request.Context()).Info("handled")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), `"msg":"Request completed"`)
}

func TestGetLoggerFromCtx_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), middleware.GetLoggerFromCtx(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
