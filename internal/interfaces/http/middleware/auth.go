package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fastighet/internal/domain/ticket/policy"
	"fastighet/internal/domain/user"
	"fastighet/internal/infrastructure/auth"
	"fastighet/internal/shared/constants"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
	"fastighet/internal/shared/utils"
)

// TokenVerifier is satisfied by *auth.JWTService.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// UserLoader resolves the token subject. The user is reloaded on every
// request so role and relation changes apply without re-issuing tokens.
type UserLoader interface {
	GetByID(ctx context.Context, id uint) (*user.User, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	users    UserLoader
	logger   logger.Interface
}

func NewAuthMiddleware(verifier TokenVerifier, users UserLoader, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		users:    users,
		logger:   logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.verifier.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		u, err := m.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.IsNotFoundError(err) {
				m.logger.Warnw("token subject no longer exists", "user_id", claims.UserID)
				utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			} else {
				m.logger.Errorw("failed to load authenticated user", "user_id", claims.UserID, "error", err)
				utils.ErrorResponseWithError(c, err)
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, u.ID())
		c.Set(constants.ContextKeyUserRole, u.Role().String())
		c.Set(constants.ContextKeyActor, policy.ActorFromUser(u))

		c.Next()
	}
}

// GetActor returns the actor stored by RequireAuth.
func GetActor(c *gin.Context) (policy.Actor, bool) {
	v, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return policy.Actor{}, false
	}
	actor, ok := v.(policy.Actor)
	return actor, ok
}
