package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/mandi2mandi/marketguard/internal/pkg/config"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

// SetupCache initializes the connection to the redis-compatible cache server.
// An unreachable cache is logged, not fatal: callers fall back to uncached paths.
func SetupCache(cfg config.Cache) *redis.Client {
	client = redis.NewClient(&redis.Options{
		Addr:     Addr(cfg),
		Password: cfg.Password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	pong, err := client.Ping(pingCtx).Result()
	if err != nil {
		log.Warnf("[Cache] Could not connect to cache at %s: %v", Addr(cfg), err)
	} else {
		log.Infof("[Cache] Connected to cache: %s", pong)
	}
	return client
}

// Addr is host:port of the configured cache.
func Addr(cfg config.Cache) string {
	return fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
}

// Close closes the client if one was set up.
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}
