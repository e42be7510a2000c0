package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fastighet/internal/shared/constants"
	"fastighet/internal/shared/logger"
	"fastighet/internal/shared/utils"
)

// RoleEnforcer is satisfied by *permission.Enforcer.
type RoleEnforcer interface {
	Enforce(role string, resource string, action string) (bool, error)
}

// PermissionMiddleware is the coarse, role-only gate in front of a route.
// Relation checks happen later in the use cases.
type PermissionMiddleware struct {
	enforcer RoleEnforcer
	logger   logger.Interface
}

func NewPermissionMiddleware(enforcer RoleEnforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		enforcer: enforcer,
		logger:   logger,
	}
}

func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(constants.ContextKeyUserRole)
		if role == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		allowed, err := m.enforcer.Enforce(role, resource, action)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "role", role, "resource", resource, "action", action)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}

		if !allowed {
			userID, _ := c.Get(constants.ContextKeyUserID)
			m.logger.Warnw("permission denied", "user_id", userID, "role", role, "resource", resource, "action", action)
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
