package transport

import (
	"context"
	"net"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"bdev-rpc/codec"
	"bdev-rpc/message"
)

var ErrPoolClosed = errors.New("transport pool closed")

// Factory opens a new connection to the pool's address.
type Factory func(ctx context.Context) (net.Conn, error)

// DialFactory returns a Factory dialing network/addr.
func DialFactory(network, addr string) Factory {
	return func(ctx context.Context) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, network, addr)
	}
}

// Pool hands out ClientTransports to a single target address.
//
// Transports are borrowed exclusively (Get/Put) so that a caller holds one for
// the duration of a call. A buffered channel is the idle FIFO; connections
// are created lazily up to maxConns.
type Pool struct {
	mu       sync.Mutex
	idle     chan *ClientTransport // Idle transports in FIFO order
	addr     string
	maxConns int
	curConns int // Created transports, idle or borrowed
	closed   bool
	factory  Factory
	codec    codec.Codec
}

func NewPool(addr string, maxConns int, factory Factory, cdc codec.Codec) *Pool {
	if maxConns <= 0 {
		maxConns = 1
	}
	return &Pool{
		idle:     make(chan *ClientTransport, maxConns),
		addr:     addr,
		maxConns: maxConns,
		factory:  factory,
		codec:    cdc,
	}
}

// Get retrieves a transport:
//  1. take an idle one, dropping any whose connection broke meanwhile
//  2. otherwise dial a new one if under the limit
//  3. otherwise wait for one to be returned, or for ctx
func (p *Pool) Get(ctx context.Context) (*ClientTransport, error) {
	for {
		select {
		case t := <-p.idle:
			if t.Closed() {
				p.release()
				continue
			}
			return t, nil
		default:
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, ErrPoolClosed
		}
		if p.curConns < p.maxConns {
			p.curConns++
			p.mu.Unlock()
			return p.createNew(ctx)
		}
		p.mu.Unlock()

		select {
		case t := <-p.idle:
			if t.Closed() {
				p.release()
				continue
			}
			return t, nil
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "waiting for a free transport to %v", p.addr)
		}
	}
}

// Put returns a transport to the pool. Broken transports are discarded.
func (p *Pool) Put(t *ClientTransport) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed || t.Closed() {
		if err := t.Close(); err != nil {
			logrus.WithError(err).WithField("addr", p.addr).Debug("Failed to close discarded transport")
		}
		p.release()
		return
	}
	p.idle <- t
}

// Close closes every idle transport. Borrowed transports are closed when they
// are returned.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	var err error
	for {
		select {
		case t := <-p.idle:
			err = multierr.Append(err, t.Close())
			p.release()
		default:
			return err
		}
	}
}

// Len returns the number of transports created and not yet discarded.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.curConns
}

func (p *Pool) release() {
	p.mu.Lock()
	p.curConns--
	p.mu.Unlock()
}

// createNew dials outside the lock; the slot was reserved by the caller.
func (p *Pool) createNew(ctx context.Context) (*ClientTransport, error) {
	conn, err := p.factory(ctx)
	if err != nil {
		p.release()
		return nil, &message.NotSentError{Err: errors.Wrapf(err, "failed to connect to %v", p.addr)}
	}
	logrus.WithField("addr", p.addr).Debug("Opened new transport")
	return NewClientTransport(conn, p.codec), nil
}
