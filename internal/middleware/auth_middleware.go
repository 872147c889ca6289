package middleware

import (
	"net/http"
	"strings"

	"tintshop_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID   = "userID"
	ContextOrgID    = "orgID"
	ContextUserRole = "userRole"
)

// AuthMiddleware validates the Bearer token and stores the caller's identity
// and tenant in the gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", ""))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header must be in 'Bearer <token>' format", ""))
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token", err.Error()))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextOrgID, claims.OrganizationID)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

// RequireRole guards a route group behind a role. Admin passes everywhere.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actual := c.GetString(ContextUserRole)
		if actual != role && actual != "admin" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Insufficient permissions", ""))
			return
		}
		c.Next()
	}
}
