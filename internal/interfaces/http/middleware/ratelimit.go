package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fastighet/internal/infrastructure/ratelimit"
	"fastighet/internal/shared/constants"
	"fastighet/internal/shared/logger"
	"fastighet/internal/shared/utils"
)

// RateLimiter throttles authenticated callers by user id and everyone else
// by client IP. The window slides, and all instances share Redis.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	limit   ratelimit.Limit
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, limit ratelimit.Limit, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		limit:   limit,
		logger:  logger,
	}
}

// Limit returns a Gin middleware that enforces the rate limit.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if userID, exists := c.Get(constants.ContextKeyUserID); exists {
			key = fmt.Sprintf("user:%v", userID)
		}

		allowed, err := rl.limiter.Allow(c.Request.Context(), key, rl.limit)
		if err != nil {
			// If Redis is unavailable, allow the request to avoid blocking all traffic
			rl.logger.Warnw("rate limiter unavailable, allowing request", "key", key, "error", err)
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(rl.limit.Window.Seconds())))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
