package company

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/resilience"
	"go.uber.org/zap"
)

// ErrUnavailable indicates the backing store could not be reached.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	return "company store unavailable: " + e.Err.Error()
}

func (e *ErrUnavailable) Unwrap() error {
	return e.Err
}

// CircuitOpen reports whether the failure was a rejection by an open breaker.
func (e *ErrUnavailable) CircuitOpen() bool {
	return errors.Is(e.Err, gobreaker.ErrOpenState) || errors.Is(e.Err, gobreaker.ErrTooManyRequests)
}

// ResilientStore retries transient lookup failures and stops calling the
// wrapped store while its circuit breaker is open. Not-found results are
// neither retried nor counted as failures.
type ResilientStore struct {
	next   Store
	cb     *gobreaker.CircuitBreaker
	cfg    resilience.Config
	logger *zap.Logger
}

// NewResilientStore wraps next.
func NewResilientStore(next Store, cfg resilience.Config, logger *zap.Logger) *ResilientStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResilientStore{
		next:   next,
		cb:     resilience.NewCircuitBreaker("company-store", cfg, isSuccessful),
		cfg:    cfg,
		logger: logger,
	}
}

func isSuccessful(err error) bool {
	var notFound *ErrNotFound
	return err == nil || errors.As(err, &notFound) || errors.Is(err, context.Canceled)
}

// Get looks up id through the breaker and retry policy.
func (s *ResilientStore) Get(ctx context.Context, id string) (Company, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		var c Company
		err := resilience.RetryWithBackoff(ctx, s.cfg, func() error {
			var err error
			c, err = s.next.Get(ctx, id)
			var notFound *ErrNotFound
			if errors.As(err, &notFound) {
				return resilience.Permanent(err)
			}
			return err
		})
		return c, err
	})
	if err == nil {
		return result.(Company), nil
	}

	var notFound *ErrNotFound
	if errors.As(err, &notFound) {
		return Company{}, err
	}

	s.logger.Warn("company lookup failed",
		zap.String("op", "company.ResilientStore.Get"),
		zap.String("companyId", id),
		zap.String("breakerState", s.cb.State().String()),
		zap.Error(err),
	)
	return Company{}, &ErrUnavailable{Err: err}
}

// State exposes the breaker state for health reporting.
func (s *ResilientStore) State() gobreaker.State {
	return s.cb.State()
}
