package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy returns the wait before retry number attempt (0-indexed)
type BackoffStrategy interface {
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff doubles (by Multiplier) from BaseDelay up to MaxDelay,
// spread by ±Jitter
type ExponentialBackoff struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	Jitter     float64 // 0.1 is ±10%
}

// GatewayReadBackoff is used between retries of idempotent gateway reads:
// ~200ms, ~400ms, ~800ms, then 2s
func GatewayReadBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay:  200 * time.Millisecond,
		MaxDelay:   2 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.1,
	}
}

// NextDelay implements BackoffStrategy
func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		return eb.BaseDelay
	}

	delay := math.Min(
		float64(eb.BaseDelay)*math.Pow(eb.Multiplier, float64(attempt)),
		float64(eb.MaxDelay),
	)
	delay += (rand.Float64()*2 - 1) * delay * eb.Jitter

	if delay < 0 {
		return eb.BaseDelay
	}
	return time.Duration(delay)
}

// FixedBackoff waits the same delay before every retry
type FixedBackoff struct {
	Delay time.Duration
}

// NextDelay implements BackoffStrategy
func (fb *FixedBackoff) NextDelay(int) time.Duration {
	return fb.Delay
}

// RetryPolicy configures Retry
type RetryPolicy struct {
	Retries   int // extra attempts after the first
	Backoff   BackoffStrategy
	Retryable func(error) bool // nil retries every error
	OnRetry   func(attempt int, delay time.Duration, err error)
}

// Retry calls fn until it succeeds, fails with a non-retryable error or the
// retries are used up. The last error is returned. A cancelled ctx stops the
// wait between attempts and returns ctx.Err().
func Retry(ctx context.Context, p RetryPolicy, fn func() error) error {
	err := fn()
	for attempt := 1; attempt <= p.Retries && err != nil; attempt++ {
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}

		delay := p.Backoff.NextDelay(attempt - 1)
		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		err = fn()
	}
	return err
}
