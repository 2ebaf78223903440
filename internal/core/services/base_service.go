package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/middleware"
	"github.com/lithictech/suma-sub001/internal/observability/metrics"
)

// Clock abstracts time so tests can pin it.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

var defaultValidator = validator.New(validator.WithRequiredStructEnabled())

// BaseService provides common functionality for all services
type BaseService struct {
	clock    Clock
	metrics  *metrics.Recorder
	validate *validator.Validate
}

// ServiceOption is a functional option shared by every service constructor.
type ServiceOption func(*BaseService)

// WithClock overrides the wall clock.
func WithClock(c Clock) ServiceOption {
	return func(s *BaseService) {
		s.clock = c
	}
}

// WithMetrics records service activity on r.
func WithMetrics(r *metrics.Recorder) ServiceOption {
	return func(s *BaseService) {
		s.metrics = r
	}
}

func newBaseService(options []ServiceOption) BaseService {
	b := BaseService{clock: SystemClock{}, validate: defaultValidator}
	for _, option := range options {
		option(&b)
	}
	return b
}

func (s *BaseService) now() time.Time {
	return s.clock.Now()
}

// validateRequest runs struct tag validation and reports failures as apperrors.ErrValidation.
func (s *BaseService) validateRequest(req any) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}
