package langsvc

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryPolicy bounds how persistently a single service call is retried.
// The policy lives here rather than in the engine so the engine stays
// pure with respect to failure handling.
type RetryPolicy struct {
	MaxAttempts    int
	PerCallTimeout time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		PerCallTimeout: 60 * time.Second,
	}
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	if errors.As(err, &retryErr) {
		return true
	}
	// A per-call timeout is transient; caller cancellation is not and
	// is screened out before this is consulted.
	return errors.Is(err, context.DeadlineExceeded)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

type retryGenerator struct {
	gen    Generator
	policy RetryPolicy
}

// WithRetry wraps a Generator so each call is bounded by the policy's
// per-call timeout and transient failures are retried with backoff.
func WithRetry(gen Generator, policy RetryPolicy) Generator {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	return &retryGenerator{gen: gen, policy: policy}
}

func (r *retryGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := range r.policy.MaxAttempts {
		callCtx := ctx
		cancel := context.CancelFunc(func() {})
		if r.policy.PerCallTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, r.policy.PerCallTimeout)
		}
		out, err := r.gen.Generate(callCtx, prompt)
		cancel()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			// Caller cancelled; do not keep calling the backend.
			return "", ctx.Err()
		}
		if !IsRetryable(err) {
			return "", err
		}
		if attempt == r.policy.MaxAttempts-1 {
			break
		}
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

func (r *retryGenerator) Close() {
	r.gen.Close()
}
