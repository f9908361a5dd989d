package ollama

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go/v3"
)

// retryPolicy bounds retries to maxRetries attempts with exponential
// backoff, and stops early when ctx is canceled.
func retryPolicy(ctx context.Context, maxRetries int) backoff.BackOffContext {
	if maxRetries < 0 {
		maxRetries = 0
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 10 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(policy, uint64(maxRetries)), ctx)
}

// retryable reports whether an API call failure is worth retrying.
// Connection failures and rate limiting are transient; client errors
// such as an unknown model name are not.
func retryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Treat per-call timeouts as transient but respect caller cancellation.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return !errors.Is(err, context.Canceled)
}
