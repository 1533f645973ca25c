package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/ratelimit"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/utils"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
)

type rateLimiter interface {
	Allow(ctx context.Context, key string, limits ratelimit.Limits) (bool, error)
	Used(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit caps requests per caller across instances sharing Redis. Callers
// are keyed by user id when authenticated and by client IP otherwise.
type RateLimit struct {
	limiter rateLimiter
	limits  ratelimit.Limits
	logger  logger.Interface
}

// NewRateLimit returns nil when limiter is nil or no window is capped; the
// nil middleware passes every request.
func NewRateLimit(limiter rateLimiter, limits ratelimit.Limits, logger logger.Interface) *RateLimit {
	if limiter == nil || !limits.Enabled() {
		return nil
	}
	return &RateLimit{
		limiter: limiter,
		limits:  limits,
		logger:  logger,
	}
}

func (rl *RateLimit) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil {
			c.Next()
			return
		}

		key := rateLimitKey(c)
		allowed, err := rl.limiter.Allow(c.Request.Context(), key, rl.limits)
		if err != nil {
			// Fail open: Redis trouble must not take the API down with it.
			rl.logger.Warnw("rate limiter unavailable", "key", key, "error", err)
			c.Next()
			return
		}

		if rl.limits.RequestsPerMinute > 0 {
			rl.setHeaders(c, key)
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimit) setHeaders(c *gin.Context, key string) {
	used, err := rl.limiter.Used(c.Request.Context(), key, time.Minute)
	if err != nil {
		return
	}
	remaining := max(int64(rl.limits.RequestsPerMinute)-used, 0)
	c.Header(HeaderRateLimitLimit, strconv.Itoa(rl.limits.RequestsPerMinute))
	c.Header(HeaderRateLimitRemaining, strconv.FormatInt(remaining, 10))
}

func rateLimitKey(c *gin.Context) string {
	if userID, ok := c.Get(constants.ContextKeyUserID); ok {
		return fmt.Sprintf("user:%v", userID)
	}
	return "ip:" + c.ClientIP()
}
