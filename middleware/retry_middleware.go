package middleware

import (
	"context"
	"time"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"bdev-rpc/message"
)

// RetryMiddleware re-issues a call that never reached the target, with
// exponential backoff starting at baseDelay. Once the request frame is written
// the call is not retried: the target may already have applied it.
func RetryMiddleware(maxRetries uint, baseDelay time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		if maxRetries == 0 {
			return next
		}
		attempts := maxRetries + 1
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			var resp *message.Response
			err := retry.Do(
				func() error {
					var err error
					resp, err = next(ctx, req)
					return err
				},
				retry.Context(ctx),
				retry.Attempts(attempts),
				retry.Delay(baseDelay),
				retry.DelayType(retry.BackOffDelay),
				retry.LastErrorOnly(true),
				retry.RetryIf(IsRetryable),
				retry.OnRetry(func(n uint, err error) {
					if n+1 >= attempts {
						return
					}
					logrus.WithError(err).WithField("method", req.Method).Infof("Attempt %d of %d failed, retrying", n+1, attempts)
				}),
			)
			return resp, err
		}
	}
}

// IsRetryable reports whether err was raised before the request left the
// client, e.g. a refused dial or a failed write.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var notSent *message.NotSentError
	return errors.As(err, &notSent)
}
