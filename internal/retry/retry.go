// Package retry runs fallible calls with exponential backoff.
package retry

import (
	"context"
	"errors"
	"log"
	"time"
)

// RateLimited is implemented by errors that carry a provider-suggested
// wait. When the next attempt would start sooner than the suggestion, the
// suggestion wins.
type RateLimited interface {
	error
	RetryAfterDuration() time.Duration
}

// Do calls fn up to attempts times, doubling the delay between attempts
// starting from baseDelay. It returns nil as soon as fn succeeds, the last
// error once attempts are exhausted, and ctx.Err() if the context ends
// while waiting.
func Do(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	delay := baseDelay
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		wait := delay
		var rl RateLimited
		if errors.As(lastErr, &rl) && rl.RetryAfterDuration() > wait {
			wait = rl.RetryAfterDuration()
		}
		log.Printf("retry.Do: attempt %d/%d failed, retrying in %s: %v",
			attempt, attempts, wait, lastErr)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return lastErr
}
