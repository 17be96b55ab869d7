// Package events publishes treasury state changes to the message broker
package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"github.com/treasury-dashboard/internal/config"
	"github.com/treasury-dashboard/internal/platform/messaging/producers"
)

// ErrCircuitOpen is returned while the breaker rejects publishes
var ErrCircuitOpen = errors.New("event publishing suspended: circuit open")

// Metrics receives publish outcomes and breaker transitions
type Metrics interface {
	RecordPublish(kind string, err error, duration time.Duration)
	RecordCircuitState(name string, state gobreaker.State)
}

type nopMetrics struct{}

func (nopMetrics) RecordPublish(string, error, time.Duration) {}
func (nopMetrics) RecordCircuitState(string, gobreaker.State) {}

// GuardedPublisher wraps an EventPublisher with a circuit breaker and a per-publish timeout
type GuardedPublisher struct {
	next    producers.EventPublisher
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	metrics Metrics
	logger  *slog.Logger
}

// NewGuardedPublisher creates a publisher that trips after cfg.ConsecutiveFailures failed publishes
func NewGuardedPublisher(
	next producers.EventPublisher,
	cfg *config.CircuitBreakerConfig,
	timeout time.Duration,
	metrics Metrics,
	logger *slog.Logger,
) *GuardedPublisher {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	gp := &GuardedPublisher{
		next:    next,
		timeout: timeout,
		metrics: metrics,
		logger:  logger,
	}

	threshold := cfg.ConsecutiveFailures
	gp.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "events",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			gp.metrics.RecordCircuitState(name, to)
		},
	})

	return gp
}

// Publish forwards to the wrapped publisher unless the breaker is open
func (gp *GuardedPublisher) Publish(ctx context.Context, key, eventType string, value interface{}) error {
	start := time.Now()

	if gp.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, gp.timeout)
		defer cancel()
	}

	_, err := gp.cb.Execute(func() (interface{}, error) {
		return nil, gp.next.Publish(ctx, key, eventType, value)
	})
	gp.metrics.RecordPublish(eventType, err, time.Since(start))

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		gp.logger.Debug("Circuit breaker open - event dropped", "event_type", eventType, "key", key)
		return ErrCircuitOpen
	}
	return err
}

// State returns the breaker state
func (gp *GuardedPublisher) State() gobreaker.State {
	return gp.cb.State()
}

func (gp *GuardedPublisher) Close() error {
	return gp.next.Close()
}
