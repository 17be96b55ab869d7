package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/treasury-dashboard/internal/treasury_api/service"
)

// PaymentHandler handles HTTP requests for payments
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *slog.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(logger *slog.Logger, paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// List returns payments in the requested status with counts per status
func (h *PaymentHandler) List(c *gin.Context) {
	var filter PaymentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		RespondBadRequest(c, "Invalid query: "+err.Error())
		return
	}

	payments, counts, err := h.paymentService.ListPayments(filter.Status)
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to list payments", err, "status", filter.Status)
		return
	}
	RespondWithMeta(c, http.StatusOK, payments, &MetaInfo{TotalItems: len(payments), StatusCounts: counts})
}

// Create handles creation of a new payment
func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestLogger(c, h.logger).Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), req.input())
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to create payment", err)
		return
	}

	requestLogger(c, h.logger).Info("Payment created", "payment_id", payment.ID, "status", payment.Status)
	RespondCreated(c, payment)
}

// Transition returns a handler applying action to the payment named by the id path parameter
func (h *PaymentHandler) Transition(action service.PaymentAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		paymentID := c.Param("id")
		payment, err := h.paymentService.TransitionPayment(c.Request.Context(), paymentID, action)
		if err != nil {
			RespondServiceError(c, h.logger, "Payment transition failed", err,
				"payment_id", paymentID,
				"action", action,
			)
			return
		}

		requestLogger(c, h.logger).Info("Payment transitioned",
			"payment_id", payment.ID,
			"action", action,
			"status", payment.Status,
		)
		RespondOK(c, payment)
	}
}
