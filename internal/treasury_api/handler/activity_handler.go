package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/treasury-dashboard/internal/treasury_api/service"
)

type ActivityHandler struct {
	activityService service.ActivityService
	logger          *slog.Logger
}

func NewActivityHandler(logger *slog.Logger, activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// List returns the activity log, newest first
func (h *ActivityHandler) List(c *gin.Context) {
	RespondOK(c, h.activityService.ListActivities())
}

func (h *ActivityHandler) Create(c *gin.Context) {
	var req AddActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	activity, err := h.activityService.AddActivity(c.Request.Context(), req.input())
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to add activity", err, "type", req.Type)
		return
	}
	RespondCreated(c, activity)
}
