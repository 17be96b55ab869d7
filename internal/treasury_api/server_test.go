package treasury_api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treasury-dashboard/internal/config"
	"github.com/treasury-dashboard/internal/data/fixtures"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/platform/metrics"
	"github.com/treasury-dashboard/internal/store"
	"github.com/treasury-dashboard/internal/treasury_api/service"
)

func newTestServer(t *testing.T) (*Server, *store.TreasuryState) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	collector := metrics.NewCollector("treasury")
	registry := prometheus.NewRegistry()
	require.NoError(t, collector.Register(registry))

	state := store.New(fixtures.Seed(), store.WithMetrics(collector))
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			ShutdownTimeout: time.Second,
			ReadTimeout:     time.Second,
			IdleTimeout:     time.Second,
			SSEHeartbeat:    time.Second,
		},
		Treasury: config.TreasuryConfig{SubscriberBuffer: 8},
	}
	api := service.NewTreasuryService(logger, state, treasury.DefaultRates())
	return NewServer(logger, cfg, api, registry, collector), state
}

func do(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req, _ := http.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	var envelope map[string]json.RawMessage
	if rr.Body.Len() > 0 && rr.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	}
	return rr, envelope
}

func TestServer_PaymentApprovalFlow(t *testing.T) {
	s, state := newTestServer(t)

	rr, envelope := do(t, s, http.MethodPost, "/api/v1/payments/PAY-001234/approve", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var payment treasury.Payment
	require.NoError(t, json.Unmarshal(envelope["data"], &payment))
	assert.Equal(t, treasury.PaymentStatusApproved, payment.Status)
	assert.False(t, payment.FraudAlert)

	activities := state.Activities()
	require.NotEmpty(t, activities)
	assert.Equal(t, treasury.ActivityPaymentApproved, activities[0].Type)
	assert.Contains(t, activities[0].Description, "$50,000")

	rr, envelope = do(t, s, http.MethodPost, "/api/v1/payments/PAY-001234/reject", "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, string(envelope["error"]), `"code":"CONFLICT"`)

	rr, _ = do(t, s, http.MethodPost, "/api/v1/payments/PAY-404/approve", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_Routes(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		method string
		target string
		body   string
		status int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/snapshot", "", http.StatusOK},
		{http.MethodGet, "/api/v1/collections/fx_exposures", "", http.StatusOK},
		{http.MethodGet, "/api/v1/collections/ledgers", "", http.StatusNotFound},
		{http.MethodGet, "/api/v1/accounts?currency=USD", "", http.StatusOK},
		{http.MethodGet, "/api/v1/accounts/1/transactions", "", http.StatusOK},
		{http.MethodPut, "/api/v1/accounts/1/balance", `{"ledger_balance":"3000000"}`, http.StatusOK},
		{http.MethodPut, "/api/v1/selection/account", `{"id":"2"}`, http.StatusOK},
		{http.MethodDelete, "/api/v1/selection/account", "", http.StatusNoContent},
		{http.MethodPost, "/api/v1/ui/sidebar/toggle", "", http.StatusOK},
		{http.MethodGet, "/api/v1/payments?status=all", "", http.StatusOK},
		{http.MethodGet, "/api/v1/activities", "", http.StatusOK},
		{http.MethodGet, "/api/v1/forecast/scenarios", "", http.StatusOK},
		{http.MethodGet, "/api/v1/forecast/scenarios/1/variants", "", http.StatusOK},
		{http.MethodPost, "/api/v1/forecast/impact", `{"outflows_adjustment_pct":"-5"}`, http.StatusOK},
		{http.MethodGet, "/api/v1/fx/summary", "", http.StatusOK},
		{http.MethodGet, "/api/v1/connectors/summary", "", http.StatusOK},
		{http.MethodGet, "/api/v1/users/2", "", http.StatusOK},
		{http.MethodPost, "/api/v1/users", `{"name":"Jane Twin","email":"JANE.SMITH@company.com","role":"analyst"}`, http.StatusConflict},
		{http.MethodGet, "/api/v1/cash-position", "", http.StatusOK},
		{http.MethodGet, "/api/v1/cash-position/distribution", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rr, _ := do(t, s, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	s, _ := newTestServer(t)

	do(t, s, http.MethodPost, "/api/v1/payments/PAY-001234/approve", "")
	rr, _ := do(t, s, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `treasury_store_operations_total{operation="approve_payment",result="ok"} 1`)
	assert.Contains(t, body, `treasury_http_requests_total{method="POST",route="/api/v1/payments/:id/approve",status="200"} 1`)
}
