// Package client implements the Caller the bdev marshaler dispatches through.
//
// A call resolves the target through a registry, picks an instance with the
// balancer, borrows a transport for that instance and runs the middleware
// chain around the roundtrip:
//
//	Call → Registry.Discover → Balancer.Pick → Pool.Get → middlewares → Transport.Roundtrip
package client

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"bdev-rpc/codec"
	"bdev-rpc/loadbalance"
	"bdev-rpc/message"
	"bdev-rpc/middleware"
	"bdev-rpc/registry"
	"bdev-rpc/transport"
)

type routingKey struct{}

// WithRoutingKey attaches the key used by key-based balancers, usually the
// name of the bdev the call is about.
func WithRoutingKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, routingKey{}, key)
}

func routingKeyFrom(ctx context.Context) string {
	key, _ := ctx.Value(routingKey{}).(string)
	return key
}

type Client struct {
	cfg      Config
	registry registry.Registry
	balancer loadbalance.Balancer
	codec    codec.Codec

	mu    sync.Mutex
	pools map[string]*transport.Pool // One pool per instance address

	middlewares []middleware.Middleware
	handler     middleware.HandlerFunc
	closers     []func() error
}

type Option func(*Client) error

// WithRegistry replaces the registry derived from Config.
func WithRegistry(reg registry.Registry) Option {
	return func(c *Client) error {
		c.registry = reg
		return nil
	}
}

// WithBalancer replaces the balancer named in Config.
func WithBalancer(b loadbalance.Balancer) Option {
	return func(c *Client) error {
		c.balancer = b
		return nil
	}
}

// WithMiddleware appends middlewares; they run inside the built-in ones.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(c *Client) error {
		c.middlewares = append(c.middlewares, mws...)
		return nil
	}
}

// WithMetrics records per-method call metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) error {
		m, err := middleware.NewMetrics(reg)
		if err != nil {
			return err
		}
		c.middlewares = append(c.middlewares, m.Middleware())
		return nil
	}
}

// NewClient builds a client from cfg. No connection is opened until the first call.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	codecType, err := codec.ParseCodecType(cfg.Codec)
	if err != nil {
		return nil, err
	}
	c := &Client{
		cfg:   cfg,
		codec: codec.GetCodec(codecType),
		pools: make(map[string]*transport.Pool),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.balancer == nil {
		b, err := loadbalance.New(cfg.Balancer)
		if err != nil {
			return nil, err
		}
		c.balancer = b
	}
	// Opened last: an etcd registry owns a connection and nothing below can fail.
	if c.registry == nil {
		if err := c.initRegistry(); err != nil {
			return nil, err
		}
	}

	// Outermost first: logging sees the final outcome, retries are throttled,
	// each attempt gets its own timeout.
	chain := []middleware.Middleware{middleware.LoggingMiddleware()}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		chain = append(chain, middleware.RateLimitMiddleware(cfg.RateLimit, burst))
	}
	chain = append(chain,
		middleware.RetryMiddleware(cfg.RetryCount, time.Duration(cfg.RetryDelay)),
		middleware.TimeOutMiddleware(time.Duration(cfg.Timeout)),
	)
	chain = append(chain, c.middlewares...)
	c.handler = middleware.Chain(chain...)(c.roundtrip)

	return c, nil
}

func (c *Client) initRegistry() error {
	if len(c.cfg.EtcdEndpoints) > 0 {
		reg, err := registry.NewEtcdRegistry(c.cfg.EtcdEndpoints)
		if err != nil {
			return err
		}
		c.registry = reg
		c.closers = append(c.closers, reg.Close)
		return nil
	}

	if c.cfg.Address == "" {
		return errors.New("either address or etcd_endpoints is required")
	}
	reg := registry.NewStaticRegistry()
	if err := reg.Register(c.cfg.Target, registry.ServiceInstance{
		Network: c.cfg.Network,
		Addr:    c.cfg.Address,
		Weight:  1,
	}, 0); err != nil {
		return err
	}
	c.registry = reg
	return nil
}

// Call sends method with params and returns the raw result. A target-side
// failure is returned as *message.ResponseError.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	req, err := message.NewRequest(0, method, params)
	if err != nil {
		return nil, err
	}

	resp, err := c.handler(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}

// roundtrip is the innermost handler: one attempt on one instance.
func (c *Client) roundtrip(ctx context.Context, req *message.Request) (*message.Response, error) {
	instances, err := c.registry.Discover(c.cfg.Target)
	if err != nil {
		return nil, err
	}
	instance, err := c.balancer.Pick(routingKeyFrom(ctx), instances)
	if err != nil {
		return nil, errors.Wrapf(err, "no instance of target %v", c.cfg.Target)
	}

	pool, err := c.pool(instance)
	if err != nil {
		return nil, err
	}
	t, err := pool.Get(ctx)
	if err != nil {
		return nil, err
	}
	defer pool.Put(t)

	logrus.WithFields(logrus.Fields{
		"method": req.Method,
		"addr":   instance.Addr,
	}).Debug("Sending RPC request")
	return t.Roundtrip(ctx, req)
}

func (c *Client) pool(instance *registry.ServiceInstance) (*transport.Pool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pools == nil {
		return nil, transport.ErrPoolClosed
	}
	key := instance.Network + "://" + instance.Addr
	p, ok := c.pools[key]
	if !ok {
		network := instance.Network
		if network == "" {
			network = DefaultNetwork
		}
		p = transport.NewPool(instance.Addr, c.cfg.PoolSize, transport.DialFactory(network, instance.Addr), c.codec)
		c.pools[key] = p
	}
	return p, nil
}

// Close closes every pool and the registry the client created.
func (c *Client) Close() error {
	c.mu.Lock()
	pools := c.pools
	c.pools = nil
	c.mu.Unlock()

	var err error
	for _, p := range pools {
		err = multierr.Append(err, p.Close())
	}
	for _, closer := range c.closers {
		err = multierr.Append(err, closer())
	}
	return err
}
