package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/logger"
	"github.com/treasury-dashboard/internal/treasury_api/middleware"
)

// StatusClientClosedRequest is written when the caller canceled the request
const StatusClientClosedRequest = 499

// Response represents a standard API response
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Meta          *MetaInfo   `json:"meta,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo carries the store version a response was read at and list metadata
type MetaInfo struct {
	Version      uint64         `json:"version,omitempty"`
	TotalItems   int            `json:"total_items,omitempty"`
	StatusCounts map[string]int `json:"status_counts,omitempty"`
}

// RespondWithData sends a JSON response with data
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, &Response{
		Data:          data,
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondWithMeta sends a JSON response with data and metadata
func RespondWithMeta(c *gin.Context, statusCode int, data interface{}, meta *MetaInfo) {
	c.JSON(statusCode, &Response{
		Data:          data,
		Meta:          meta,
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondWithError sends a JSON response with an error
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, &Response{
		Error:         &ErrorInfo{Code: code, Message: message},
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondOK sends a 200 OK response with data
func RespondOK(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data
func RespondCreated(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusCreated, data)
}

// RespondNoContent sends a 204 No Content response
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondBadRequest sends a 400 Bad Request response with an error
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// RespondNotFound sends a 404 Not Found response with an error
func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, "NOT_FOUND", message)
}

// RespondConflict sends a 409 Conflict response with an error
func RespondConflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, "CONFLICT", message)
}

// RespondInternalError sends a 500 Internal Server Error response with an error
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
}

// RespondServiceError maps a service error onto the API status codes and logs it.
// Server errors log at error level, everything else at warn.
func RespondServiceError(c *gin.Context, log *slog.Logger, msg string, err error, attrs ...any) {
	var (
		transition        treasury.ErrInvalidTransition
		duplicate         treasury.ErrDuplicateEmail
		unknownCollection treasury.ErrUnknownCollection
	)
	attrs = append(attrs, "error", err)
	log = requestLogger(c, log)

	switch {
	case errors.Is(err, treasury.ErrNotFound), errors.As(err, &unknownCollection):
		log.Warn(msg, attrs...)
		RespondNotFound(c, err.Error())
	case errors.As(err, &transition), errors.As(err, &duplicate):
		log.Warn(msg, attrs...)
		RespondConflict(c, err.Error())
	case errors.Is(err, treasury.ErrValidation):
		log.Warn(msg, attrs...)
		RespondBadRequest(c, err.Error())
	case errors.Is(err, context.Canceled):
		log.Info(msg, attrs...)
		c.Status(StatusClientClosedRequest)
	default:
		log.Error(msg, attrs...)
		_ = c.Error(err)
		RespondInternalError(c)
	}
}

// requestLogger tags log with the request's correlation ID
func requestLogger(c *gin.Context, log *slog.Logger) *slog.Logger {
	return logger.WithCorrelationID(log, middleware.GetCorrelationID(c))
}
