// Package ratelimit builds the fiber limiters for the public API routes,
// backed by the shared cache so limits hold across instances.
package ratelimit

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/mandi2mandi/marketguard/internal/pkg/config"
)

// limiterDatabase keeps limiter keys apart from the verdict cache in DB 0.
const limiterDatabase = 2

// NewStorage connects limiter storage to the cache. It returns nil, which
// makes the limiter fall back to process memory, when the cache is unreachable.
func NewStorage(cfg config.Cache) (storage fiber.Storage) {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		log.Warnf("[RateLimit] Invalid CACHE_PORT %q, using in-memory limiter", cfg.Port)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			log.Warnf("[RateLimit] Cache unavailable, using in-memory limiter: %v", r)
			storage = nil
		}
	}()

	return redis.New(redis.Config{
		Host:     cfg.Host,
		Port:     port,
		Password: cfg.Password,
		Database: limiterDatabase,
		Reset:    false,
	})
}

// New returns a limiter allowing max requests per window per client IP.
func New(storage fiber.Storage, name string, max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return fmt.Sprintf("limiter:%s:%s", name, c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate_limited", "message": "Too many requests"})
		},
	})
}
