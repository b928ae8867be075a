package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiterConfig defines rate limiting rules
type RateLimiterConfig struct {
	MaxRequests int           // Maximum requests allowed in the window
	Window      time.Duration // Counting window
	BlockTime   time.Duration // How long a client stays blocked after exceeding the limit
	// Prefix separates counters of limiters that share one redis.
	Prefix string
}

// RateLimiter provides IP-based rate limiting using Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimiterConfig
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimiterConfig) *RateLimiter {
	if config.Prefix == "" {
		config.Prefix = "ratelimit"
	}
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

// Middleware returns a Gin middleware function for rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		allowed, retryAfter, err := rl.CheckLimit(c.Request.Context(), clientIP)
		if err != nil {
			// Fail open: an unavailable redis must not take the API down
			logger.Log.Warn("Rate limiter unavailable", zap.String("ip", clientIP), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests. Please try again later.",
				"retry_after": int(retryAfter.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CheckLimit counts one request for ip with INCR + EXPIRE. Once the limit is
// exceeded the ip is blocked for BlockTime (or the rest of the window when
// BlockTime is zero).
// Returns: (allowed bool, retryAfter duration, error)
func (rl *RateLimiter) CheckLimit(ctx context.Context, ip string) (bool, time.Duration, error) {
	blockKey := fmt.Sprintf("%s:block:%s", rl.config.Prefix, ip)
	if ttl, err := rl.redis.TTL(ctx, blockKey).Result(); err != nil {
		return false, 0, err
	} else if ttl > 0 {
		return false, ttl, nil
	}

	key := fmt.Sprintf("%s:%s", rl.config.Prefix, ip)
	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}

	// Set expiry on first request (count = 1)
	if count == 1 {
		if err := rl.redis.Expire(ctx, key, rl.config.Window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count <= int64(rl.config.MaxRequests) {
		return true, 0, nil
	}

	if rl.config.BlockTime > 0 {
		if err := rl.redis.Set(ctx, blockKey, 1, rl.config.BlockTime).Err(); err != nil {
			return false, 0, err
		}
		logger.Log.Warn("Client blocked by rate limiter",
			zap.String("ip", ip),
			zap.Duration("block_time", rl.config.BlockTime),
		)
		return false, rl.config.BlockTime, nil
	}

	ttl, err := rl.redis.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = rl.config.Window
	}
	return false, ttl, nil
}

// Reset clears the counter and any block for ip.
func (rl *RateLimiter) Reset(ctx context.Context, ip string) error {
	return rl.redis.Del(ctx,
		fmt.Sprintf("%s:%s", rl.config.Prefix, ip),
		fmt.Sprintf("%s:block:%s", rl.config.Prefix, ip),
	).Err()
}
