package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRateLimiter creates a rate limiter with miniredis for testing
func setupTestRateLimiter(t *testing.T, maxRequests int, window, blockTime time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRateLimiter(client, RateLimiterConfig{
		MaxRequests: maxRequests,
		Window:      window,
		BlockTime:   blockTime,
	})

	return rl, mr
}

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	return router
}

func hit(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsRequestsUnderLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 5, time.Minute, 0)
	router := newLimitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := hit(router, "192.168.1.1:12345")
		assert.Equal(t, http.StatusOK, w.Code, "Request %d should succeed", i+1)
	}
}

func TestRateLimiter_BlocksRequestsOverLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 5, time.Minute, 0)
	router := newLimitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := hit(router, "192.168.1.1:12345")
		assert.Equal(t, http.StatusOK, w.Code, "Request %d should succeed", i+1)
	}

	w := hit(router, "192.168.1.1:12345")
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "6th request should be rate limited")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiter_DifferentIPsIndependent(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 3, time.Minute, 0)
	router := newLimitedRouter(rl)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(router, "192.168.1.1:12345").Code, "IP1 request %d should succeed", i+1)
	}
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(router, "192.168.1.2:12345").Code, "IP2 request %d should succeed", i+1)
	}

	assert.Equal(t, http.StatusTooManyRequests, hit(router, "192.168.1.1:12345").Code)
}

func TestRateLimiter_CheckLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 3, time.Minute, 0)
	ctx := context.Background()
	ip := "192.168.1.100"

	for i := 0; i < 3; i++ {
		allowed, _, err := rl.CheckLimit(ctx, ip)
		require.NoError(t, err)
		assert.True(t, allowed, "Request %d should be allowed", i+1)
	}

	allowed, retryAfter, err := rl.CheckLimit(ctx, ip)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	rl, mr := setupTestRateLimiter(t, 1, time.Minute, 0)
	ctx := context.Background()

	allowed, _, err := rl.CheckLimit(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = rl.CheckLimit(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	mr.FastForward(61 * time.Second)

	allowed, _, err = rl.CheckLimit(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_BlockTimeOutlastsWindow(t *testing.T) {
	rl, mr := setupTestRateLimiter(t, 1, time.Minute, 5*time.Minute)
	ctx := context.Background()

	_, _, err := rl.CheckLimit(ctx, "10.0.0.2")
	require.NoError(t, err)

	allowed, retryAfter, err := rl.CheckLimit(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 5*time.Minute, retryAfter)

	// Window is over, block is not
	mr.FastForward(2 * time.Minute)
	allowed, _, err = rl.CheckLimit(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.False(t, allowed)

	mr.FastForward(4 * time.Minute)
	allowed, _, err = rl.CheckLimit(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_Reset(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 1, time.Minute, 5*time.Minute)
	ctx := context.Background()

	_, _, _ = rl.CheckLimit(ctx, "10.0.0.3")
	allowed, _, _ := rl.CheckLimit(ctx, "10.0.0.3")
	require.False(t, allowed)

	require.NoError(t, rl.Reset(ctx, "10.0.0.3"))

	allowed, _, err := rl.CheckLimit(ctx, "10.0.0.3")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_FailsOpenWithoutRedis(t *testing.T) {
	rl, mr := setupTestRateLimiter(t, 1, time.Minute, 0)
	router := newLimitedRouter(rl)
	mr.Close()

	assert.Equal(t, http.StatusOK, hit(router, "192.168.1.9:12345").Code)
	assert.Equal(t, http.StatusOK, hit(router, "192.168.1.9:12345").Code)
}
