package handlers

import (
	"net/http"

	"tintshop_backend/internal/middleware"
	"tintshop_backend/internal/services"
	"tintshop_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler holds the auth service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Register provisions a new organization with its first admin user.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	resp, err := h.authService.Register(req)
	if err != nil {
		respondServiceError(c, err, "Register")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login authenticates a user and returns session tokens.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		respondServiceError(c, err, "Login")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	value, exists := c.Get(middleware.ContextUserID)
	userID, ok := value.(uuid.UUID)
	if !exists || !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing authentication context", ""))
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err, "Me")
		return
	}
	c.JSON(http.StatusOK, user)
}
