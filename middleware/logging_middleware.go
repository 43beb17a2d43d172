package middleware

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"bdev-rpc/message"
)

func LoggingMiddleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			log := logrus.WithFields(logrus.Fields{
				"method":   req.Method,
				"duration": time.Since(start),
			})
			switch {
			case err != nil:
				log.WithError(err).Warn("RPC call failed")
			case resp != nil && resp.Error != nil:
				log.WithField("code", resp.Error.Code).Debugf("RPC call returned error: %v", resp.Error.Message)
			default:
				log.Debug("RPC call done")
			}
			return resp, err
		}
	}
}
