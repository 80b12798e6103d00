package contactguard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	data    map[string]string
	ttl     map[string]time.Duration
	getErr  error
	setErr  error
	getHits int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", ErrCacheMiss
	}
	m.getHits++
	return v, nil
}

func (m *memoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttl[key] = ttl
	return nil
}

func TestVerdictKey(t *testing.T) {
	k := VerdictKey("hello")
	assert.Equal(t, "contactguard:verdict:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", k)
}

func TestCachedDetector_StoresAndReuses(t *testing.T) {
	store := newMemoryStore()
	cd := NewCachedDetector(nil, store, time.Minute)

	first := cd.Detect(context.Background(), "call 9876543210")
	second := cd.Detect(context.Background(), "call 9876543210")

	assert.Equal(t, first, second)
	assert.Equal(t, []Category{PhoneNumber}, second.Categories)
	assert.Equal(t, 1, store.getHits)
	assert.Equal(t, time.Minute, store.ttl[VerdictKey("call 9876543210")])
}

func TestCachedDetector_StoreErrorsFallBack(t *testing.T) {
	store := newMemoryStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	cd := NewCachedDetector(nil, store, 0)

	v := cd.Detect(context.Background(), "reach me on whatsapp")

	assert.Equal(t, []Category{WhatsApp}, v.Categories)
	assert.Equal(t, 10*time.Minute, cd.TTL)
}

func TestCachedDetector_CorruptEntryIsRecomputed(t *testing.T) {
	store := newMemoryStore()
	store.data[VerdictKey("a@b.co")] = "not json"
	cd := NewCachedDetector(nil, store, time.Minute)

	v := cd.Detect(context.Background(), "a@b.co")

	assert.Equal(t, SeverityHigh, v.Severity)
	assert.NotEqual(t, "not json", store.data[VerdictKey("a@b.co")])
}

func TestCachedDetector_NilStore(t *testing.T) {
	cd := NewCachedDetector(nil, nil, time.Minute)
	assert.Equal(t, SeverityMedium, cd.Detect(context.Background(), "@seller").Severity)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	client := testRedisClient(t)
	store := RedisStore{Client: client}
	ctx := context.Background()
	key := fmt.Sprintf("contactguard:test:%d", time.Now().UnixNano())
	t.Cleanup(func() { client.Del(ctx, key) })

	_, err := store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, store.Set(ctx, key, "v", time.Minute))
	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	host := os.Getenv("CACHE_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("CACHE_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: os.Getenv("CACHE_PASSWORD"),
		DB:       14,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis not reachable at %s:%s: %v", host, port, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
