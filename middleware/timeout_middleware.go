package middleware

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"bdev-rpc/message"
)

// TimeOutMiddleware bounds a call by timeout. A non-positive timeout disables it.
// The handler runs in its own goroutine so that handlers ignoring ctx are
// abandoned rather than waited for.
func TimeOutMiddleware(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			type result struct {
				resp *message.Response
				err  error
			}
			done := make(chan result, 1)
			go func() {
				resp, err := next(ctx, req)
				done <- result{resp, err}
			}()

			select {
			case r := <-done:
				return r.resp, r.err
			case <-ctx.Done():
				return nil, errors.Wrapf(ctx.Err(), "request %v timed out after %v", req.Method, timeout)
			}
		}
	}
}
