// Package middleware wraps RPC invocation with cross-cutting behaviour.
//
// The same HandlerFunc shape is used on both sides of the socket: the client
// chain ends in a transport roundtrip, the server chain ends in method
// dispatch. A returned error means the call did not complete; a failed call
// that the target answered comes back as a Response carrying an Error.
package middleware

import (
	"context"

	"bdev-rpc/message"
)

type HandlerFunc func(ctx context.Context, req *message.Request) (*message.Response, error)

type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares so that the first one runs outermost:
// Chain(A, B, C)(h) == A(B(C(h))).
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
