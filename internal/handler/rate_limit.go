package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playtube/user-service/internal/dto"
	"github.com/playtube/user-service/internal/service"
)

// RateLimitMiddleware throttles requests per key. Register and login
// use IP-based keys to slow brute forcing.
func RateLimitMiddleware(rateLimiter *service.RateLimiter, limit int, window time.Duration, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed, err := rateLimiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			if strings.Contains(err.Error(), "rate limit exceeded") {
				tooManyRequests(c, rateLimiter, key, limit, window, err.Error())
				return
			}

			// Redis hiccup: let the request through rather than lock
			// everyone out.
			c.Next()
			return
		}

		if !allowed {
			tooManyRequests(c, rateLimiter, key, limit, window, "Rate limit exceeded")
			return
		}

		remaining, _ := rateLimiter.RemainingRequests(c.Request.Context(), key, limit, window)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		c.Next()
	}
}

func tooManyRequests(c *gin.Context, rateLimiter *service.RateLimiter, key string, limit int, window time.Duration, message string) {
	remaining, _ := rateLimiter.RemainingRequests(c.Request.Context(), key, limit, window)
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

	c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
		StatusCode: http.StatusTooManyRequests,
		Message:    message,
		Success:    false,
	})
}

// IPBasedKey extracts a rate limit key from the client IP.
func IPBasedKey(c *gin.Context) string {
	ip := c.GetHeader("X-Forwarded-For")
	if ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}
	return c.ClientIP()
}
