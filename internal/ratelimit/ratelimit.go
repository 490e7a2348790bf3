// Package ratelimit provides a per-user fixed-window request limiter backed
// by Redis, used to keep a single user from burning the remote model budget.
package ratelimit

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kvianAR/Mindmate/internal/auth"
	"github.com/redis/go-redis/v9"
)

const window = time.Minute

// Limiter counts requests per user in fixed one-minute windows.
type Limiter struct {
	rdb   *redis.Client
	limit int
	log   *slog.Logger
}

// New creates a Limiter with its own Redis client, separate from the Asynq
// internal connection.
func New(redisURL string, limit int, log *slog.Logger) (*Limiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &Limiter{rdb: redis.NewClient(opts), limit: limit, log: log}, nil
}

// Middleware rejects requests over the per-user budget with a 429. When Redis
// is unreachable the limiter fails open: the request proceeds and the failure
// is logged.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:ai:%d:%d", userID, time.Now().Unix()/int64(window.Seconds()))

		count, err := l.rdb.Incr(ctx, key).Result()
		if err != nil {
			l.log.Warn("rate limiter unavailable, allowing request", "error", err.Error())
			c.Next()
			return
		}
		if count == 1 {
			l.rdb.Expire(ctx, key, window)
		}

		if count > int64(l.limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		c.Next()
	}
}

// Close releases the limiter's Redis connection.
func (l *Limiter) Close() error {
	return l.rdb.Close()
}
