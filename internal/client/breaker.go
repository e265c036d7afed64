package client

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/Eursukkul/room-booking-service/config"
	"github.com/Eursukkul/room-booking-service/internal/apperror"
	"github.com/Eursukkul/room-booking-service/pkg/logger"
	"github.com/Eursukkul/room-booking-service/pkg/metrics"
)

// RemoteError is a business error from a peer that was reachable and answered
// with a JSON body carrying a message.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Breaker isolates one downstream service. A single instance is shared by all
// requests; gobreaker serializes its counters internally.
type Breaker struct {
	service string
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	log     *zap.Logger
}

// NewBreaker builds the breaker for service ("Rooms", "Users"). m may be nil.
func NewBreaker(service string, cfg config.BreakerConfig, m *metrics.Metrics) *Breaker {
	b := &Breaker{
		service: service,
		timeout: cfg.CallTimeout,
		log:     logger.Named("client").With(zap.String("service", service)),
	}

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}

	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        service,
		MaxRequests: cfg.MaxHalfOpenRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A peer that answers with a business error is healthy.
		IsSuccessful: func(err error) bool {
			var remote *RemoteError
			return err == nil || errors.As(err, &remote)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.log.Warn("circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if m != nil {
				m.BreakerState.WithLabelValues(name).Set(float64(to))
			}
		},
	})

	if m != nil {
		m.BreakerState.WithLabelValues(service).Set(float64(gobreaker.StateClosed))
	}
	return b
}

// Execute runs fn behind the breaker with the configured per-call timeout.
// Business errors come back as apperror.Upstream with the peer's status and
// message; anything else becomes apperror.ServiceUnavailable and the cause is
// only logged.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		callCtx := ctx
		if b.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, b.timeout)
			defer cancel()
		}
		return nil, fn(callCtx)
	})
	if err == nil {
		return nil
	}

	var remote *RemoteError
	if errors.As(err, &remote) {
		return apperror.Upstream(remote.Status, remote.Message)
	}

	b.log.Warn("downstream call failed", zap.Error(err), zap.String("state", b.cb.State().String()))
	return apperror.ServiceUnavailable(b.service)
}

// Call runs fn through b and returns its value; see Execute for error handling.
func Call[T any](ctx context.Context, b *Breaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := b.Execute(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
