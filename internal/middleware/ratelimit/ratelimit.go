package ratelimit

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/product_service/internal/logging"
)

type Config struct {
	Limit  int
	Window time.Duration
	Prefix string
}

// Store counts hits for a key inside a fixed window and reports how long the
// window has left.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type RedisStore struct {
	Client *redis.Client
}

func (s RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := s.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := s.Client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		return count, window, nil
	}
	left, err := s.Client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if left < 0 {
		// key lost its expiry; start a fresh window
		_ = s.Client.PExpire(ctx, key, window).Err()
		left = window
	}
	return count, left, nil
}

// New limits requests per client IP. A nil client disables limiting.
func New(cfg Config, rdb *redis.Client) echo.MiddlewareFunc {
	if rdb == nil {
		return passThrough
	}
	return WithStore(cfg, RedisStore{Client: rdb})
}

func WithStore(cfg Config, store Store) echo.MiddlewareFunc {
	if store == nil || cfg.Limit <= 0 || cfg.Window <= 0 {
		return passThrough
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "rl"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := buildKey(cfg.Prefix, c)

			count, left, err := store.Hit(ctx, key, cfg.Window)
			if err != nil {
				logging.FromContext(ctx).Warn("ratelimit_store_failed", "key", key, "error", err)
				return next(c)
			}

			remaining := int64(cfg.Limit) - count
			if remaining < 0 {
				remaining = 0
			}
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Limit) {
				secs := int(math.Ceil(left.Seconds()))
				if secs < 1 {
					secs = 1
				}
				h.Set("Retry-After", strconv.Itoa(secs))
				logging.FromContext(ctx).Warn("ratelimit_blocked", "status", 429, "key", key)
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
			}
			return next(c)
		}
	}
}

func buildKey(prefix string, c echo.Context) string {
	return prefix + ":" + c.Path() + ":" + c.RealIP()
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc {
	return next
}
