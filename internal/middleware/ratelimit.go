package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mines-backend/internal/config"
)

const rateLimitWindow = time.Minute

// RateLimiter counts requests per client and action in a fixed window.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, client, action string, limit int, window time.Duration) (bool, error)
}

// RateLimitMiddleware budgets the round-changing routes per client IP. A nil
// limiter disables it. Limiter errors let the request through.
func RateLimitMiddleware(limiter RateLimiter, cfg config.RateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		var action string
		var limit int

		switch c.FullPath() {
		case "/game/start":
			action, limit = "start", cfg.Start
		case "/game/verify-cell":
			action, limit = "reveal", cfg.Reveal
		case "/game/end":
			action, limit = "end", cfg.End
		default:
			c.Next()
			return
		}
		if limit <= 0 {
			c.Next()
			return
		}

		allowed, err := limiter.CheckRateLimit(c.Request.Context(), c.ClientIP(), action, limit, rateLimitWindow)
		if err != nil {
			logger.Warn("rate limit check failed", zap.String("action", action), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"code":        "RATE_LIMITED",
				"retry_after": rateLimitWindow.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
