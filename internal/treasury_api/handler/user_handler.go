package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/treasury-dashboard/internal/treasury_api/service"
)

// UserHandler handles HTTP requests for treasury users
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

func NewUserHandler(logger *slog.Logger, userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

func (h *UserHandler) List(c *gin.Context) {
	RespondOK(c, h.userService.ListUsers())
}

// GetByID retrieves a user, returning 404 if not found
func (h *UserHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	user, err := h.userService.GetUser(id)
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to get user", err, "user_id", id)
		return
	}
	RespondOK(c, user)
}

// Create invites a user, returning 409 when the email is taken
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req.input())
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to create user", err, "email", req.Email)
		return
	}

	requestLogger(c, h.logger).Info("User created", "user_id", user.ID, "role", user.Role)
	RespondCreated(c, user)
}
