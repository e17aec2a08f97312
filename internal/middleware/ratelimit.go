package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/observability"
	"github.com/redis/go-redis/v9"
)

// CheckRateLimit counts a hit for id on resource in a fixed window.
// Returns true if allowed, false if limit exceeded.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(limit), nil
}

// RateLimit allows `limit` requests per `window` for each caller of the
// named limiter. Callers are keyed by user id after auth, otherwise by IP.
// Redis failures let the request through.
func RateLimit(rdb *redis.Client, name string, limit int, window time.Duration, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled || limit <= 0 {
			c.Next()
			return
		}

		id := "ip:" + c.ClientIP()
		if uid, ok := c.Get(ContextUserID); ok {
			id = fmt.Sprintf("user:%v", uid)
		}

		allowed, err := CheckRateLimit(c.Request.Context(), rdb, name, id, limit, window)
		if err != nil {
			observability.RedisErrors.WithLabelValues("rate_limit").Inc()
			slog.WarnContext(c.Request.Context(), "rate limit check failed, allowing request", "limiter", name, "error", err)
			c.Next()
			return
		}

		if !allowed {
			observability.RateLimited.WithLabelValues(name).Inc()
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
				Error: "rate limit exceeded",
				Code:  model.ErrCodeTooManyRequests,
			})
			return
		}
		c.Next()
	}
}
