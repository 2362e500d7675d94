package aws

import (
	"context"
	"time"

	"github.com/rfleet/rfleet/internal/util/retry"
)

// retryOptions converts the client's retry tuning into retry options. Zero
// values keep the retry package defaults.
func retryOptions(maxAttempts int, initialDelay time.Duration) []retry.Option {
	var opts []retry.Option
	if maxAttempts > 0 {
		opts = append(opts, retry.WithMaxAttempts(maxAttempts))
	}
	if initialDelay > 0 {
		opts = append(opts, retry.WithInitialDelay(initialDelay))
	}
	return opts
}

// callWithRetry runs an API call under the client's backoff budget. Only
// throttling errors are retried; everything else aborts immediately.
func (c *RealClient) callWithRetry(ctx context.Context, op func(ctx context.Context) error) error {
	return retry.Do(ctx, func() error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if Classify(err) == KindTransient {
			return err
		}
		return retry.Permanent(err)
	}, c.retryOpts...)
}
