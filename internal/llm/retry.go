package llm

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

// RetryPolicy bounds the retry loop around one completion call site.
// Backoff is randomized exponential: the wait before attempt n is drawn
// uniformly from [0, min(MaxWait, MinWait<<n)], floored at MinWait.
type RetryPolicy struct {
	MaxAttempts int
	MinWait     time.Duration
	MaxWait     time.Duration
}

// DefaultRetryPolicy is used for the router and the primary extraction
// calls.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, MinWait: time.Second, MaxWait: 10 * time.Second}
}

// FilterRetryPolicy is used for the disambiguation call, which retries less
// aggressively since it is a secondary refinement step.
func FilterRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 2, MinWait: time.Second, MaxWait: 10 * time.Second}
}

// wait computes the randomized backoff before the given zero-based retry.
func (p RetryPolicy) wait(retry int) time.Duration {
	ceil := p.MinWait << uint(retry)
	if ceil > p.MaxWait || ceil <= 0 {
		ceil = p.MaxWait
	}
	d := time.Duration(rand.Int63n(int64(ceil) + 1))
	if d < p.MinWait {
		d = p.MinWait
	}
	return d
}

// WithRetry decorates a Completer with the retry policy. Only transient
// provider errors are retried; any other error is returned immediately.
// After exhausting attempts the last transient error is returned.
func WithRetry(c Completer, policy RetryPolicy, logger *slog.Logger) Completer {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return CompleterFunc(func(ctx context.Context, messages []Message) (string, error) {
		var lastErr error
		for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
			if attempt > 0 {
				wait := policy.wait(attempt - 1)
				logger.Warn("retrying completion call",
					"attempt", attempt+1,
					"max_attempts", policy.MaxAttempts,
					"wait", wait,
					"error", lastErr)
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(wait):
				}
			}

			out, err := c.Complete(ctx, messages)
			if err == nil {
				return out, nil
			}
			if !IsTransient(err) {
				return "", err
			}
			lastErr = err
		}
		return "", lastErr
	})
}
