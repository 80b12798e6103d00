package contactguard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

const verdictKeyPrefix = "contactguard:verdict:"

// VerdictStore is the key/value backend for cached verdicts.
type VerdictStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// ErrCacheMiss is returned by a VerdictStore when the key is absent.
var ErrCacheMiss = errors.New("verdict not cached")

// RedisStore adapts a go-redis client to VerdictStore.
type RedisStore struct {
	Client redis.Cmdable
}

func (s RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (s RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.Client.Set(ctx, key, value, ttl).Err()
}

// CachedDetector memoises verdicts by text hash. Store errors never fail a
// detection, they fall through to the wrapped detector.
type CachedDetector struct {
	Detector *Detector
	Store    VerdictStore
	TTL      time.Duration
}

func NewCachedDetector(d *Detector, store VerdictStore, ttl time.Duration) *CachedDetector {
	if d == nil {
		d = defaultDetector
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedDetector{Detector: d, Store: store, TTL: ttl}
}

// VerdictKey is the cache key for text.
func VerdictKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return verdictKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *CachedDetector) Detect(ctx context.Context, text string) Verdict {
	if c.Store == nil || text == "" {
		return c.Detector.Detect(text)
	}

	key := VerdictKey(text)
	if raw, err := c.Store.Get(ctx, key); err == nil {
		var v Verdict
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v
		}
		log.Warnf("[ContactGuard] Discarding unreadable cached verdict %s", key)
	} else if !errors.Is(err, ErrCacheMiss) {
		log.Warnf("[ContactGuard] Verdict cache read failed: %v", err)
	}

	v := c.Detector.Detect(text)
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	if err := c.Store.Set(ctx, key, string(data), c.TTL); err != nil {
		log.Warnf("[ContactGuard] Verdict cache write failed: %v", err)
	}
	return v
}
