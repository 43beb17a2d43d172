package middleware

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"bdev-rpc/message"
)

// RateLimitMiddleware throttles calls with a token bucket of r tokens per
// second and the given burst. Callers wait for a token; the wait is bounded by
// their context.
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			if err := limiter.Wait(ctx); err != nil {
				return nil, errors.Wrapf(err, "rate limit exceeded for %v", req.Method)
			}
			return next(ctx, req)
		}
	}
}
