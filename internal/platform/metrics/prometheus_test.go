package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treasury-dashboard/internal/domain/treasury"
)

func TestCollector_Register(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector("treasury")

	require.NoError(t, collector.Register(registry))
	assert.Error(t, collector.Register(registry), "registering twice must fail")
}

func TestCollector_ObserveOperation(t *testing.T) {
	collector := NewCollector("treasury")

	collector.ObserveOperation("approve_payment", nil)
	collector.ObserveOperation("approve_payment", nil)
	collector.ObserveOperation("approve_payment", treasury.ErrPaymentNotFound{PaymentID: "PAY-404"})

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.storeOperations.WithLabelValues("approve_payment", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.storeOperations.WithLabelValues("approve_payment", ResultNotFound)))
	assert.Equal(t, 2, testutil.CollectAndCount(collector.storeOperations))
}

func TestCollector_Gauges(t *testing.T) {
	collector := NewCollector("treasury")

	collector.SetActivityLogSize(20)
	collector.SetSubscribers(3)
	collector.SetSubscribers(2)

	assert.Equal(t, 20.0, testutil.ToFloat64(collector.activityLogSize))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.subscribers))
}

func TestCollector_RecordPublish(t *testing.T) {
	collector := NewCollector("treasury")

	collector.RecordPublish("payment_status_changed", nil, 5*time.Millisecond)
	collector.RecordPublish("payment_status_changed", errors.New("broker down"), time.Millisecond)
	collector.RecordPublish("payment_status_changed", gobreaker.ErrOpenState, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.eventsPublished.WithLabelValues("payment_status_changed", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.eventsPublished.WithLabelValues("payment_status_changed", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.eventsPublished.WithLabelValues("payment_status_changed", "rejected")))
}

func TestCollector_RecordCircuitState(t *testing.T) {
	collector := NewCollector("treasury")

	collector.RecordCircuitState("events", gobreaker.StateOpen)
	collector.RecordCircuitState("events", gobreaker.StateHalfOpen)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.circuitState.WithLabelValues("events")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.circuitOpens.WithLabelValues("events")))
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	collector := NewCollector("treasury")

	collector.RecordHTTPRequest("GET", "/api/v1/snapshot", 200, 10*time.Millisecond)
	collector.RecordBalanceFeed("applied")

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.httpRequests.WithLabelValues("GET", "/api/v1/snapshot", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.balanceFeedMessages.WithLabelValues("applied")))
}

func TestResult(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ResultOK},
		{"account not found", treasury.ErrAccountNotFound{AccountID: "9"}, ResultNotFound},
		{"wrapped user not found", fmt.Errorf("lookup: %w", treasury.ErrUserNotFound{Key: "x"}), ResultNotFound},
		{"invalid transition", treasury.ErrInvalidTransition{PaymentID: "P", From: "rejected", To: "approved"}, ResultInvalidTransition},
		{"validation", treasury.ValidationError{Field: "amount", Message: "must be positive"}, ResultInvalidInput},
		{"unknown collection", treasury.ErrUnknownCollection{Name: "ledgers"}, ResultInvalidInput},
		{"duplicate email", treasury.ErrDuplicateEmail{Email: "a@b.c"}, ResultConflict},
		{"canceled", context.Canceled, ResultCanceled},
		{"other", errors.New("boom"), ResultError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Result(tt.err))
		})
	}
}
