package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RedisRateLimiterStore is a fixed-window echo RateLimiterStore shared across
// instances. Redis failures let the request through.
type RedisRateLimiterStore struct {
	client *redis.Client
	name   string
	limit  int
	window time.Duration
	logger *slog.Logger
}

func NewRedisRateLimiterStore(client *redis.Client, name string, limit int, window time.Duration, logger *slog.Logger) *RedisRateLimiterStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisRateLimiterStore{client: client, name: name, limit: limit, window: window, logger: logger}
}

// Allow counts the request against identifier's current window.
func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	key := fmt.Sprintf("rl:%s:%s", s.name, identifier)
	cnt, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		s.logger.Warn("rate limit store unavailable", slog.String("limiter", s.name), slog.Any("error", err))
		return true, nil
	}
	if cnt == 1 {
		if err := s.client.Expire(ctx, key, s.window).Err(); err != nil {
			s.logger.Warn("rate limit expiry not set", slog.String("key", key), slog.Any("error", err))
		}
	}
	return cnt <= int64(s.limit), nil
}

// NewMemoryRateLimiterStore is the single-instance fallback for the Redis store.
// No window of the given length admits more than limit requests per client.
func NewMemoryRateLimiterStore(limit int, window time.Duration) middleware.RateLimiterStore {
	return middleware.NewRateLimiterMemoryStoreWithConfig(memoryStoreConfig(limit, window))
}

// memoryStoreConfig splits limit between the token bucket's burst and what it
// refills over one window, so burst plus refill never exceeds limit. A limit
// of one refills a single token per window, spacing requests a full window
// apart. The sustained rate is below the Redis store's.
func memoryStoreConfig(limit int, window time.Duration) middleware.RateLimiterMemoryStoreConfig {
	burst := (limit + 1) / 2
	refill := float64(max(limit-burst, 1))
	return middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(refill / window.Seconds()),
		Burst:     burst,
		ExpiresIn: window,
	}
}

// RateLimit limits requests per client IP using store.
func RateLimit(store middleware.RateLimiterStore) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return "ip:" + c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, try again later").SetInternal(err)
		},
	})
}
