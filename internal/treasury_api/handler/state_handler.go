package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/treasury_api/service"
)

const defaultHeartbeat = 15 * time.Second

// StateHandler handles whole-state reads, collection replacement, UI selection and the change stream
type StateHandler struct {
	service   service.StateService
	logger    *slog.Logger
	buffer    int
	heartbeat time.Duration
}

// NewStateHandler creates a state handler. buffer sizes each stream subscription;
// heartbeat is the idle interval between keep-alive events.
func NewStateHandler(logger *slog.Logger, stateService service.StateService, buffer int, heartbeat time.Duration) *StateHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &StateHandler{
		service:   stateService,
		logger:    logger,
		buffer:    buffer,
		heartbeat: heartbeat,
	}
}

// Snapshot returns the full state at one version
func (h *StateHandler) Snapshot(c *gin.Context) {
	snap := h.service.Snapshot()
	RespondWithMeta(c, http.StatusOK, snap, &MetaInfo{Version: snap.Version})
}

// GetCollection returns one collection
func (h *StateHandler) GetCollection(c *gin.Context) {
	name := treasury.Collection(c.Param("name"))
	items, err := h.service.Collection(name)
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to read collection", err, "collection", name)
		return
	}
	RespondOK(c, items)
}

// ReplaceCollection swaps a whole collection
func (h *StateHandler) ReplaceCollection(c *gin.Context) {
	name := treasury.Collection(c.Param("name"))
	var req ReplaceCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.ReplaceCollection(c.Request.Context(), name, req.Items); err != nil {
		RespondServiceError(c, h.logger, "Failed to replace collection", err, "collection", name)
		return
	}
	RespondNoContent(c)
}

// SelectAccount marks an account as selected
func (h *StateHandler) SelectAccount(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	account, err := h.service.SelectAccount(c.Request.Context(), req.ID)
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to select account", err, "account_id", req.ID)
		return
	}
	RespondOK(c, account)
}

// ClearAccount clears the account selection
func (h *StateHandler) ClearAccount(c *gin.Context) {
	if _, err := h.service.SelectAccount(c.Request.Context(), ""); err != nil {
		RespondServiceError(c, h.logger, "Failed to clear account selection", err)
		return
	}
	RespondNoContent(c)
}

// SelectPayment marks a payment as selected
func (h *StateHandler) SelectPayment(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	payment, err := h.service.SelectPayment(c.Request.Context(), req.ID)
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to select payment", err, "payment_id", req.ID)
		return
	}
	RespondOK(c, payment)
}

// ClearPayment clears the payment selection
func (h *StateHandler) ClearPayment(c *gin.Context) {
	if _, err := h.service.SelectPayment(c.Request.Context(), ""); err != nil {
		RespondServiceError(c, h.logger, "Failed to clear payment selection", err)
		return
	}
	RespondNoContent(c)
}

// ToggleSidebar flips the sidebar state
func (h *StateHandler) ToggleSidebar(c *gin.Context) {
	RespondOK(c, SidebarResponse{Collapsed: h.service.ToggleSidebar()})
}

// Events streams committed changes as server-sent events, one event per change named by its kind.
// The stream opens with a "ready" event carrying the current version; changes at or below it
// are already reflected in a snapshot read after that event. A client that falls behind
// receives a "lagged" event and the stream ends.
func (h *StateHandler) Events(c *gin.Context) {
	sub := h.service.Subscribe(h.buffer)
	defer sub.Close()

	log := requestLogger(c, h.logger)
	ctx := c.Request.Context()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"version": h.service.Version()})
	c.Writer.Flush()
	log.Debug("Change stream opened")

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Change stream closed by client")
			return
		case <-heartbeat.C:
			c.SSEvent("heartbeat", gin.H{"version": h.service.Version()})
		case change, ok := <-sub.C:
			if !ok {
				reason := "subscription closed"
				if err := sub.Err(); err != nil {
					reason = err.Error()
				}
				log.Warn("Change stream subscriber dropped", "reason", reason)
				c.SSEvent("lagged", gin.H{"error": reason})
				c.Writer.Flush()
				return
			}
			c.SSEvent(string(change.Kind), change)
		}
		c.Writer.Flush()
	}
}
