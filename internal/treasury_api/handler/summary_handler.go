package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/treasury-dashboard/internal/treasury_api/service"
)

// SummaryHandler serves the FX and connector summaries
type SummaryHandler struct {
	summaryService service.SummaryService
}

func NewSummaryHandler(summaryService service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

func (h *SummaryHandler) FX(c *gin.Context) {
	RespondOK(c, h.summaryService.FXSummary())
}

func (h *SummaryHandler) Connectors(c *gin.Context) {
	RespondOK(c, h.summaryService.ConnectorSummary())
}
