package treasury_api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/treasury-dashboard/internal/treasury_api/handler"
	"github.com/treasury-dashboard/internal/treasury_api/middleware"
	"github.com/treasury-dashboard/internal/treasury_api/service"
)

type handlers struct {
	state    *handler.StateHandler
	accounts *handler.AccountHandler
	payments *handler.PaymentHandler
	activity *handler.ActivityHandler
	forecast *handler.ForecastHandler
	summary  *handler.SummaryHandler
	users    *handler.UserHandler
}

// setupRouter configures API routes and middleware. A nil registry leaves /metrics unrouted;
// nil metrics skips request instrumentation.
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	h handlers,
	registry *prometheus.Registry,
	metrics middleware.HTTPMetrics,
) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/snapshot", h.state.Snapshot)
		v1.GET("/events", h.state.Events)

		collections := v1.Group("/collections")
		{
			collections.GET("/:name", h.state.GetCollection)
			collections.PUT("/:name", h.state.ReplaceCollection)
		}

		selection := v1.Group("/selection")
		{
			selection.PUT("/account", h.state.SelectAccount)
			selection.DELETE("/account", h.state.ClearAccount)
			selection.PUT("/payment", h.state.SelectPayment)
			selection.DELETE("/payment", h.state.ClearPayment)
		}

		v1.POST("/ui/sidebar/toggle", h.state.ToggleSidebar)

		accounts := v1.Group("/accounts")
		{
			accounts.GET("", h.accounts.List)
			accounts.GET("/:id/transactions", h.accounts.Transactions)
			accounts.PUT("/:id/balance", h.accounts.UpdateBalance)
		}

		cash := v1.Group("/cash-position")
		{
			cash.GET("", h.accounts.CashPosition)
			cash.GET("/distribution", h.accounts.Distribution)
		}

		payments := v1.Group("/payments")
		{
			payments.GET("", h.payments.List)
			payments.POST("", h.payments.Create)
			payments.POST("/:id/submit", h.payments.Transition(service.PaymentActionSubmit))
			payments.POST("/:id/approve", h.payments.Transition(service.PaymentActionApprove))
			payments.POST("/:id/reject", h.payments.Transition(service.PaymentActionReject))
			payments.POST("/:id/send", h.payments.Transition(service.PaymentActionSend))
		}

		activities := v1.Group("/activities")
		{
			activities.GET("", h.activity.List)
			activities.POST("", h.activity.Create)
		}

		forecast := v1.Group("/forecast")
		{
			forecast.GET("/scenarios", h.forecast.ListScenarios)
			forecast.POST("/scenarios", h.forecast.CreateScenario)
			forecast.GET("/scenarios/:id/variants", h.forecast.Variants)
			forecast.POST("/impact", h.forecast.Impact)
		}

		v1.GET("/fx/summary", h.summary.FX)
		v1.GET("/connectors/summary", h.summary.Connectors)

		users := v1.Group("/users")
		{
			users.GET("", h.users.List)
			users.POST("", h.users.Create)
			users.GET("/:id", h.users.GetByID)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	}
}
