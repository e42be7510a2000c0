package ratelimit

import (
	"context"
	"time"

	"fastighet/internal/shared/config"
)

// Limit allows Requests calls per sliding Window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// LimitFromConfig maps the rate_limit section of the application config.
func LimitFromConfig(cfg config.RateLimitConfig) Limit {
	return Limit{Requests: cfg.Requests, Window: cfg.Window()}
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit Limit) (bool, error)
	GetRemaining(ctx context.Context, key string, limit Limit) (int64, error)
	Reset(ctx context.Context, key string) error
}
