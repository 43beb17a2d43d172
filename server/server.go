// Package server implements a JSON-RPC 2.0 endpoint speaking the same socket
// protocol as a storage target. It backs the client's tests and lets tools
// stand up a scripted target.
//
// Request processing pipeline:
//
//	Accept conn → handleConn (single goroutine reads frames)
//	  → for each request: go handleRequest (parallel processing)
//	    → Codec.Decode → Middleware Chain → dispatch (alias table → method table) → Codec.Encode → write response
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"bdev-rpc/codec"
	"bdev-rpc/message"
	"bdev-rpc/middleware"
	"bdev-rpc/protocol"
	"bdev-rpc/registry"
)

// MethodFunc handles one method. params is nil when the request carried none.
// Returning a *message.ResponseError sets the error code of the answer; any
// other error is reported as an internal error.
type MethodFunc func(ctx context.Context, params json.RawMessage) (any, error)

// Server is the RPC server that registers methods and handles incoming requests.
type Server struct {
	mu            sync.RWMutex
	methods       map[string]MethodFunc // "bdev_malloc_create" → handler
	aliases       map[string]string     // Deprecated name → canonical name
	listener      net.Listener
	wg            sync.WaitGroup // Tracks in-flight requests for graceful shutdown
	shutdown      atomic.Bool    // Set during shutdown to suppress Accept errors
	middlewares   []middleware.Middleware
	handler       middleware.HandlerFunc
	codec         codec.Codec
	registry      registry.Registry
	serviceName   string
	advertiseAddr string
}

// NewServer creates a new RPC server with an empty method table.
func NewServer() *Server {
	return &Server{
		methods: make(map[string]MethodFunc),
		aliases: make(map[string]string),
		codec:   codec.GetCodec(codec.CodecTypeJSON),
	}
}

// Register binds fn to method, replacing any previous handler.
func (svr *Server) Register(method string, fn MethodFunc) {
	svr.mu.Lock()
	defer svr.mu.Unlock()
	svr.methods[method] = fn
}

// RegisterAliases adds legacy → canonical name mappings consulted on dispatch.
func (svr *Server) RegisterAliases(aliases map[string]string) {
	svr.mu.Lock()
	defer svr.mu.Unlock()
	for legacy, canonical := range aliases {
		svr.aliases[legacy] = canonical
	}
}

// Methods returns the registered canonical method names.
func (svr *Server) Methods() []string {
	svr.mu.RLock()
	defer svr.mu.RUnlock()
	names := make([]string, 0, len(svr.methods))
	for name := range svr.methods {
		names = append(names, name)
	}
	return names
}

// Use registers a middleware. Middlewares are applied in the order they are added.
func (svr *Server) Use(mw middleware.Middleware) {
	svr.middlewares = append(svr.middlewares, mw)
}

// Serve listens on network/address, optionally publishes advertiseAddr under
// serviceName in reg, and serves until Shutdown.
func (svr *Server) Serve(network, address, serviceName, advertiseAddr string, reg registry.Registry) error {
	listener, err := net.Listen(network, address)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %v %v", network, address)
	}
	svr.mu.Lock()
	svr.listener = listener
	svr.mu.Unlock()

	if reg != nil {
		svr.registry = reg
		svr.serviceName = serviceName
		svr.advertiseAddr = advertiseAddr
		if err := reg.Register(serviceName, registry.ServiceInstance{
			Network: network,
			Addr:    advertiseAddr,
		}, 10); err != nil {
			listener.Close()
			return err
		}
	}

	return svr.ServeListener(listener)
}

// ServeListener runs the Accept loop on an existing listener.
func (svr *Server) ServeListener(listener net.Listener) error {
	svr.mu.Lock()
	svr.listener = listener
	// Build the middleware chain once, not per request.
	svr.handler = middleware.Chain(svr.middlewares...)(svr.dispatch)
	svr.mu.Unlock()

	for {
		conn, err := listener.Accept()
		if err != nil {
			// Shutdown closes the listener, which makes Accept fail.
			if svr.shutdown.Load() {
				return nil
			}
			return err
		}
		go svr.handleConn(conn)
	}
}

// handleConn reads frames sequentially and dispatches each request to its own
// goroutine. writeMu keeps response frames from interleaving.
func (svr *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	writeMu := &sync.Mutex{}
	decoder := protocol.NewDecoder(conn)
	for {
		header, body, err := decoder.Decode()
		if err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				svr.writeResponse(conn, writeMu, message.NewUnidentifiedErrorResponse(message.ErrorCodeParse, "Parse error"))
			}
			return
		}

		if header.MsgType == protocol.MsgTypeResponse {
			logrus.WithField("id", header.ID).Debug("Ignoring response frame sent to server")
			continue
		}

		svr.wg.Add(1)
		go svr.handleRequest(header, body, conn, writeMu)
	}
}

func (svr *Server) handleRequest(header *protocol.Header, body []byte, conn net.Conn, writeMu *sync.Mutex) {
	defer svr.wg.Done()

	var req message.Request
	if err := svr.codec.Decode(body, &req); err != nil {
		svr.writeResponse(conn, writeMu, message.NewErrorResponse(header.ID, message.ErrorCodeInvalidRequest, err.Error()))
		return
	}

	svr.mu.RLock()
	handler := svr.handler
	svr.mu.RUnlock()

	resp, err := handler(context.Background(), &req)
	if err != nil {
		resp = message.NewErrorResponse(header.ID, message.ErrorCodeInternal, err.Error())
	}

	if req.IsNotification() {
		return
	}
	id := header.ID
	resp.Version = message.Version
	resp.ID = &id
	svr.writeResponse(conn, writeMu, resp)
}

func (svr *Server) writeResponse(conn net.Conn, writeMu *sync.Mutex, resp *message.Response) {
	body, err := svr.codec.Encode(resp)
	if err != nil {
		logrus.WithError(err).Error("Failed to encode response")
		return
	}

	writeMu.Lock()
	defer writeMu.Unlock()
	if err := protocol.Encode(conn, body); err != nil {
		logrus.WithError(err).Warn("Failed to write response")
	}
}

// resolve maps a method name through the alias table.
func (svr *Server) resolve(method string) (string, MethodFunc, bool) {
	svr.mu.RLock()
	defer svr.mu.RUnlock()

	if canonical, ok := svr.aliases[method]; ok {
		logrus.Warnf("%v is deprecated, use %v instead", method, canonical)
		method = canonical
	}
	fn, ok := svr.methods[method]
	return method, fn, ok
}

// dispatch is the innermost handler of the middleware chain.
func (svr *Server) dispatch(ctx context.Context, req *message.Request) (*message.Response, error) {
	var id uint32
	if req.ID != nil {
		id = *req.ID
	}

	_, fn, ok := svr.resolve(req.Method)
	if !ok {
		return message.NewErrorResponse(id, message.ErrorCodeMethodNotFound, "Method not found"), nil
	}

	result, err := fn(ctx, req.Params)
	if err != nil {
		var respErr *message.ResponseError
		if errors.As(err, &respErr) {
			return message.NewErrorResponse(id, respErr.Code, respErr.Message), nil
		}
		return message.NewErrorResponse(id, message.ErrorCodeInternal, err.Error()), nil
	}

	resp, err := message.NewResult(id, result)
	if err != nil {
		return message.NewErrorResponse(id, message.ErrorCodeInternal, err.Error()), nil
	}
	return resp, nil
}

// Shutdown deregisters from the registry, stops accepting connections and
// waits up to timeout for in-flight requests.
func (svr *Server) Shutdown(timeout time.Duration) error {
	if svr.registry != nil {
		if err := svr.registry.Deregister(svr.serviceName, svr.advertiseAddr); err != nil {
			logrus.WithError(err).Warn("Failed to deregister server")
		}
	}

	// Set the flag before closing so Serve treats the Accept error as intentional.
	svr.shutdown.Store(true)
	svr.mu.RLock()
	listener := svr.listener
	svr.mu.RUnlock()
	if listener != nil {
		listener.Close()
	}

	done := make(chan struct{})
	go func() {
		svr.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for ongoing requests to finish")
	}
}

// DecodeParams unmarshals params into v, reporting failures as invalid params.
func DecodeParams(params json.RawMessage, v any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return &message.ResponseError{Code: message.ErrorCodeInvalidParams, Message: "Invalid parameters"}
	}
	return nil
}
