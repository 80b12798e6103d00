package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandi2mandi/marketguard/internal/pkg/config"
)

type flakySender struct {
	failures int
	calls    int
}

func (f *flakySender) SendActivation(_ context.Context, _ Activation) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("temporary failure")
	}
	return nil
}

func noSleep(_ context.Context, _ time.Duration) error { return nil }

func TestRetryingSender_DefaultIsAtMostOnce(t *testing.T) {
	next := &flakySender{failures: 1}
	s := NewRetryingSender(next, config.RetryConfig{})
	s.sleep = noSleep

	err := s.SendActivation(context.Background(), testActivation())

	require.Error(t, err)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, "temporary failure", err.Error())
}

func TestRetryingSender_RetriesUntilSuccess(t *testing.T) {
	next := &flakySender{failures: 2}
	s := NewRetryingSender(next, config.RetryConfig{MaxAttempts: 5})
	s.sleep = noSleep

	require.NoError(t, s.SendActivation(context.Background(), testActivation()))
	assert.Equal(t, 3, next.calls)
}

func TestRetryingSender_GivesUpAfterMaxAttempts(t *testing.T) {
	next := &flakySender{failures: 10}
	s := NewRetryingSender(next, config.RetryConfig{MaxAttempts: 3})
	s.sleep = noSleep

	err := s.SendActivation(context.Background(), testActivation())

	require.Error(t, err)
	assert.Equal(t, 3, next.calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestRetryingSender_StopsOnContextCancel(t *testing.T) {
	next := &flakySender{failures: 10}
	s := NewRetryingSender(next, config.RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SendActivation(ctx, testActivation())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, next.calls)
}

func TestRetryingSender_UsesConfiguredBackoff(t *testing.T) {
	s := NewRetryingSender(&flakySender{failures: 3}, config.RetryConfig{
		MaxAttempts: 4,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    time.Second,
	})
	var delays []time.Duration
	s.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	require.NoError(t, s.SendActivation(context.Background(), testActivation()))
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}, delays)
}
