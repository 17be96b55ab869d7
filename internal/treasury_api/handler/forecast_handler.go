package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/treasury_api/service"
)

// ForecastHandler handles forecast scenarios and the what-if impact calculation
type ForecastHandler struct {
	forecastService service.ForecastService
	logger          *slog.Logger
}

func NewForecastHandler(logger *slog.Logger, forecastService service.ForecastService) *ForecastHandler {
	return &ForecastHandler{
		forecastService: forecastService,
		logger:          logger,
	}
}

func (h *ForecastHandler) ListScenarios(c *gin.Context) {
	RespondOK(c, h.forecastService.ListScenarios())
}

func (h *ForecastHandler) CreateScenario(c *gin.Context) {
	var req CreateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	scenario, err := h.forecastService.CreateScenario(c.Request.Context(), req.input())
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to create forecast scenario", err, "name", req.Name)
		return
	}

	requestLogger(c, h.logger).Info("Forecast scenario saved", "scenario_id", scenario.ID, "type", scenario.Type)
	RespondCreated(c, scenario)
}

// Variants returns the baseline, optimistic and conservative projections of a scenario
func (h *ForecastHandler) Variants(c *gin.Context) {
	scenarioID := c.Param("id")
	variants, err := h.forecastService.ScenarioVariants(scenarioID)
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to compute scenario variants", err, "scenario_id", scenarioID)
		return
	}
	RespondOK(c, variants)
}

func (h *ForecastHandler) Impact(c *gin.Context) {
	var req ImpactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	RespondOK(c, h.forecastService.Impact(treasury.ImpactInput{
		InflowsAdjustmentPct:  req.InflowsAdjustmentPct,
		OutflowsAdjustmentPct: req.OutflowsAdjustmentPct,
	}))
}
