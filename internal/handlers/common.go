package handlers

import (
	"errors"
	"net/http"

	"tintshop_backend/internal/middleware"
	"tintshop_backend/internal/services"
	"tintshop_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// orgIDFromContext returns the tenant id the auth middleware stored. A missing
// value means the route was wired without AuthMiddleware, which is a bug.
func orgIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.ContextOrgID)
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing authentication context", ""))
		return uuid.Nil, false
	}
	orgID, ok := value.(uuid.UUID)
	if !ok || orgID == uuid.Nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authentication context", ""))
		return uuid.Nil, false
	}
	return orgID, true
}

// uuidParam parses a path parameter as a UUID, responding 400 on failure.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+name+" format, expected UUID", err.Error()))
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service sentinels onto HTTP responses. logContext
// names the failing handler in the log line.
func respondServiceError(c *gin.Context, err error, logContext string) {
	utils.LogError(err, logContext)
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrTransactionNotFound),
		errors.Is(err, services.ErrBillTemplateNotFound),
		errors.Is(err, services.ErrAppointmentNotFound),
		errors.Is(err, services.ErrClientNotFound),
		errors.Is(err, services.ErrUserNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))
	case errors.Is(err, services.ErrInvalidTransition):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
	case errors.Is(err, services.ErrEmailTaken):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), ""))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Internal server error", ""))
	}
}
