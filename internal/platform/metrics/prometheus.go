// Package metrics exposes the service's Prometheus collectors
package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
	"github.com/treasury-dashboard/internal/domain/treasury"
)

// Operation results
const (
	ResultOK                = "ok"
	ResultNotFound          = "not_found"
	ResultInvalidTransition = "invalid_transition"
	ResultInvalidInput      = "invalid_input"
	ResultConflict          = "conflict"
	ResultCanceled          = "canceled"
	ResultError             = "error"
)

// Collector implements store.Recorder and records event publishing, balance feed and HTTP metrics
type Collector struct {
	// Store
	storeOperations *prometheus.CounterVec
	activityLogSize prometheus.Gauge
	subscribers     prometheus.Gauge

	// Event publishing
	eventsPublished *prometheus.CounterVec
	publishLatency  prometheus.Histogram
	circuitState    *prometheus.GaugeVec
	circuitOpens    *prometheus.CounterVec

	// Balance feed
	balanceFeedMessages *prometheus.CounterVec

	// HTTP
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewCollector creates the collectors under namespace
func NewCollector(namespace string) *Collector {
	return &Collector{
		storeOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Total number of treasury state mutations per operation and result",
			},
			[]string{"operation", "result"},
		),
		activityLogSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "activity_log_size",
				Help:      "Current number of retained activity entries",
			},
		),
		subscribers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "change_subscribers",
				Help:      "Current number of change subscribers",
			},
		),
		eventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Total number of published events per kind and status",
			},
			[]string{"kind", "status"},
		),
		publishLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "event_publish_duration_seconds",
				Help:      "Event publish latency",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
		),
		circuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_state",
				Help:      "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"breaker"},
		),
		circuitOpens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "circuit_opens_total",
				Help:      "Total number of circuit breaker opens",
			},
			[]string{"breaker"},
		),
		balanceFeedMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "balance_feed_messages_total",
				Help:      "Total number of balance feed messages per result",
			},
			[]string{"result"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests per route and status code",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Register registers all metrics with the given Prometheus registry
func (c *Collector) Register(registry *prometheus.Registry) error {
	collectors := []prometheus.Collector{
		c.storeOperations,
		c.activityLogSize,
		c.subscribers,
		c.eventsPublished,
		c.publishLatency,
		c.circuitState,
		c.circuitOpens,
		c.balanceFeedMessages,
		c.httpRequests,
		c.httpLatency,
	}

	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

// ObserveOperation counts a store mutation by its outcome
func (c *Collector) ObserveOperation(operation string, err error) {
	c.storeOperations.WithLabelValues(operation, Result(err)).Inc()
}

func (c *Collector) SetActivityLogSize(size int) {
	c.activityLogSize.Set(float64(size))
}

func (c *Collector) SetSubscribers(count int) {
	c.subscribers.Set(float64(count))
}

// RecordPublish records one event publish attempt
func (c *Collector) RecordPublish(kind string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			status = "rejected"
		}
	}
	c.eventsPublished.WithLabelValues(kind, status).Inc()
	c.publishLatency.Observe(duration.Seconds())
}

// RecordCircuitState records the current state of the named breaker
func (c *Collector) RecordCircuitState(name string, state gobreaker.State) {
	c.circuitState.WithLabelValues(name).Set(float64(state))
	if state == gobreaker.StateOpen {
		c.circuitOpens.WithLabelValues(name).Inc()
	}
}

// RecordBalanceFeed counts a processed balance feed message
func (c *Collector) RecordBalanceFeed(result string) {
	c.balanceFeedMessages.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records a served request; route is the matched route pattern
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Result classifies an operation error into a metric label
func Result(err error) string {
	var (
		transition treasury.ErrInvalidTransition
		duplicate  treasury.ErrDuplicateEmail
		collection treasury.ErrUnknownCollection
	)
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, treasury.ErrNotFound):
		return ResultNotFound
	case errors.As(err, &transition):
		return ResultInvalidTransition
	case errors.Is(err, treasury.ErrValidation), errors.As(err, &collection):
		return ResultInvalidInput
	case errors.As(err, &duplicate):
		return ResultConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ResultCanceled
	default:
		return ResultError
	}
}
