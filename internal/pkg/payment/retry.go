package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/mandi2mandi/marketguard/internal/pkg/config"
)

// RetryingSender wraps a sender with bounded exponential backoff. With
// MaxAttempts == 1 it delivers at most once, which is the default; missed
// activations are then reconciled out of band. Raising MaxAttempts is safe
// because the account service applies activations idempotently.
type RetryingSender struct {
	Next        ActivationSender
	RetryConfig config.RetryConfig

	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryingSender applies defaults: one attempt, 200ms base, 5s cap.
func NewRetryingSender(next ActivationSender, rc config.RetryConfig) *RetryingSender {
	if rc.MaxAttempts <= 0 {
		rc.MaxAttempts = 1
	}
	if rc.BaseDelay <= 0 {
		rc.BaseDelay = 200 * time.Millisecond
	}
	if rc.MaxDelay <= 0 {
		rc.MaxDelay = 5 * time.Second
	}
	return &RetryingSender{Next: next, RetryConfig: rc, sleep: config.SleepContext}
}

func (s *RetryingSender) SendActivation(ctx context.Context, a Activation) error {
	var lastErr error

	for attempt := 0; attempt < s.RetryConfig.MaxAttempts; attempt++ {
		err := s.Next.SendActivation(ctx, a)
		if err == nil {
			if attempt > 0 {
				log.Infof("[Payment] Activation for txn %s delivered after %d attempts", a.TransactionID, attempt+1)
			}
			return nil
		}
		lastErr = err

		if attempt == s.RetryConfig.MaxAttempts-1 {
			break
		}

		delay := s.RetryConfig.Backoff(attempt)
		log.Warnf("[Payment] Activation retry %d/%d for txn %s after %v: %v",
			attempt+1, s.RetryConfig.MaxAttempts, a.TransactionID, delay, err)

		if err := s.sleep(ctx, delay); err != nil {
			return fmt.Errorf("activation retry aborted: %w (last error: %v)", err, lastErr)
		}
	}

	if s.RetryConfig.MaxAttempts == 1 {
		return lastErr
	}
	return fmt.Errorf("activation failed after %d attempts: %w", s.RetryConfig.MaxAttempts, lastErr)
}
