// Package transport implements the client side of the target's RPC socket.
//
// ClientTransport allows several calls to be in flight on one connection.
// Each request gets a unique id and a background goroutine (recvLoop) reads
// responses and routes them to the waiting caller through its pending channel.
//
//	goroutine-1 ──Send(id=41)──┐
//	goroutine-2 ──Send(id=42)──┼──→ unix socket ──→ target
//	goroutine-3 ──Send(id=43)──┘
//
//	recvLoop:  ←── response(id=42) → pending[42] → goroutine-2 wakes up
package transport

import (
	"context"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"bdev-rpc/codec"
	"bdev-rpc/message"
	"bdev-rpc/protocol"
)

var ErrTransportClosed = errors.New("transport closed")

// Reply is delivered on the pending channel of a request. Err is set when the
// connection broke before the response arrived.
type Reply struct {
	Response *message.Response
	Err      error
}

// ClientTransport manages a single multiplexed connection.
type ClientTransport struct {
	conn    net.Conn
	codec   codec.Codec
	decoder *protocol.Decoder
	seq     uint32     // Last id handed out (protected by sending mutex)
	pending sync.Map   // map[uint32]chan Reply
	sending sync.Mutex // Serializes frame writes on conn

	closed    atomic.Bool
	closeErr  atomic.Value // error
	done      chan struct{}
	closeOnce sync.Once
}

// NewClientTransport wraps conn and starts recvLoop.
func NewClientTransport(conn net.Conn, cdc codec.Codec) *ClientTransport {
	t := &ClientTransport{
		conn:    conn,
		codec:   cdc,
		decoder: protocol.NewDecoder(conn),
		// Other clients may talk to the same target; starting from a random
		// small id makes id collisions in the target's logs unlikely.
		seq:  rand.Uint32() % 10000,
		done: make(chan struct{}),
	}
	go t.recvLoop()
	return t
}

// Send assigns a fresh id to a copy of req, writes it and returns the id with
// the channel the reply will be delivered on.
func (t *ClientTransport) Send(req *message.Request) (uint32, <-chan Reply, error) {
	if t.closed.Load() {
		return 0, nil, &message.NotSentError{Err: t.err()}
	}

	t.sending.Lock()
	defer t.sending.Unlock()

	t.seq++
	id := t.seq

	out := *req
	out.Version = message.Version
	out.ID = &id

	body, err := t.codec.Encode(&out)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "failed to encode request %v", req.Method)
	}

	// Register before writing so a fast reply cannot beat us to the map.
	ch := make(chan Reply, 1)
	t.pending.Store(id, ch)

	if err := protocol.Encode(t.conn, body); err != nil {
		t.pending.Delete(id)
		// A short write leaves a truncated object the target cannot parse.
		return 0, nil, &message.NotSentError{Err: errors.Wrapf(err, "failed to write request %v", req.Method)}
	}

	return id, ch, nil
}

// Roundtrip sends req and waits for its response, the context, or the
// connection to break, whichever comes first.
func (t *ClientTransport) Roundtrip(ctx context.Context, req *message.Request) (*message.Response, error) {
	id, ch, err := t.Send(req)
	if err != nil {
		return nil, err
	}

	select {
	case reply := <-ch:
		if reply.Err != nil {
			return nil, reply.Err
		}
		return reply.Response, nil
	case <-ctx.Done():
		t.pending.Delete(id)
		return nil, errors.Wrapf(ctx.Err(), "waiting for response to %v (id %d)", req.Method, id)
	case <-t.done:
		t.pending.Delete(id)
		return nil, t.err()
	}
}

// recvLoop is the only reader of conn. It exits when the connection breaks,
// failing every pending request with the read error.
func (t *ClientTransport) recvLoop() {
	for {
		header, body, err := t.decoder.Decode()
		if err != nil {
			t.shutdown(errors.Wrap(err, "connection lost"))
			return
		}

		if header.MsgType != protocol.MsgTypeResponse {
			logrus.WithField("method", header.Method).Debug("Ignoring unsolicited frame from target")
			continue
		}

		var resp message.Response
		if err := t.codec.Decode(body, &resp); err != nil {
			logrus.WithError(err).WithField("id", header.ID).Warn("Failed to decode response")
			continue
		}

		if resp.ID == nil {
			// The target could not tell which request it rejected, so none of
			// the pending calls will get an answer on this connection.
			err := errors.New("response without id")
			if resp.Error != nil {
				err = errors.Wrap(resp.Error, "target rejected a request without naming it")
			}
			logrus.WithError(err).Error("Failing all pending requests")
			t.shutdown(err)
			t.conn.Close()
			return
		}

		ch, ok := t.pending.LoadAndDelete(*resp.ID)
		if !ok {
			logrus.WithField("id", *resp.ID).Warn("Discarding response nobody is waiting for")
			continue
		}
		ch.(chan Reply) <- Reply{Response: &resp}
	}
}

func (t *ClientTransport) shutdown(err error) {
	t.closeOnce.Do(func() {
		t.closeErr.Store(err)
		t.closed.Store(true)
		close(t.done)
		t.closeAllPending(err)
	})
}

// closeAllPending fails every waiting caller so nobody blocks forever.
func (t *ClientTransport) closeAllPending(err error) {
	t.pending.Range(func(key, _ any) bool {
		if ch, ok := t.pending.LoadAndDelete(key); ok {
			ch.(chan Reply) <- Reply{Err: err}
		}
		return true
	})
}

func (t *ClientTransport) err() error {
	if v := t.closeErr.Load(); v != nil {
		return v.(error)
	}
	return ErrTransportClosed
}

// Close closes the connection and fails pending requests.
func (t *ClientTransport) Close() error {
	t.shutdown(ErrTransportClosed)
	return t.conn.Close()
}

// Closed reports whether the transport can no longer be used.
func (t *ClientTransport) Closed() bool {
	return t.closed.Load()
}

// Conn returns the underlying connection.
func (t *ClientTransport) Conn() net.Conn {
	return t.conn
}
