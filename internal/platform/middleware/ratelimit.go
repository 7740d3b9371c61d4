package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ShareIt-Rental/service-shareit/internal/platform/metrics"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/ratelimit"
)

// RateLimitMiddleware throttles by X-Sharer-User-Id, or by client IP for anonymous calls.
// A limiter error lets the request through.
func RateLimitMiddleware(limiter ratelimit.Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if userID := c.GetHeader(SharerUserIDHeader); userID != "" {
			key = "user:" + userID
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			metrics.IncRateLimited()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
