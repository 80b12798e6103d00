package config

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
}

// Backoff is 2^attempt * BaseDelay capped at MaxDelay, with ±15% jitter when enabled.
func (r RetryConfig) Backoff(attempt int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt))) * r.BaseDelay

	if delay > r.MaxDelay {
		delay = r.MaxDelay
	}

	if r.Jitter {
		jitter := time.Duration(rand.Float64() * float64(delay) * 0.3)
		delay = delay + jitter - time.Duration(float64(delay)*0.15)
	}

	return delay
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
