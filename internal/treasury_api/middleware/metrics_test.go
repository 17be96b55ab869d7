package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type recordedRequest struct {
	method string
	route  string
	status int
}

type recordingHTTPMetrics struct {
	requests []recordedRequest
}

func (r *recordingHTTPMetrics) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	r.requests = append(r.requests, recordedRequest{method: method, route: route, status: status})
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := &recordingHTTPMetrics{}

	router := gin.New()
	router.Use(Metrics(metrics))
	router.GET("/api/v1/accounts/:id/transactions", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, target := range []string{"/api/v1/accounts/1/transactions", "/api/v1/accounts/2/transactions", "/nowhere"} {
		req, _ := http.NewRequest(http.MethodGet, target, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, []recordedRequest{
		{method: http.MethodGet, route: "/api/v1/accounts/:id/transactions", status: http.StatusOK},
		{method: http.MethodGet, route: "/api/v1/accounts/:id/transactions", status: http.StatusOK},
		{method: http.MethodGet, route: unmatchedRoute, status: http.StatusNotFound},
	}, metrics.requests)
}
