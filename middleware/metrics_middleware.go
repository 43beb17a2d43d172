package middleware

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"bdev-rpc/message"
)

const (
	StatusOK     = "ok"
	StatusError  = "error"  // The target answered with an error
	StatusFailed = "failed" // No answer: transport failure, timeout, rate limit
)

type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics registers the RPC collectors on reg, reusing collectors a
// previous call already registered there.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bdev_rpc",
		Name:      "requests_total",
		Help:      "Number of RPC calls by method and outcome.",
	}, []string{"method", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bdev_rpc",
		Name:      "request_duration_seconds",
		Help:      "RPC call latency by method.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
	}, []string{"method"})

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	return &Metrics{Requests: requests, Duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, errors.Wrap(err, "failed to register metrics")
	}
	return c, nil
}

func (m *Metrics) Middleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			m.Duration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

			status := StatusOK
			switch {
			case err != nil:
				status = StatusFailed
			case resp != nil && resp.Error != nil:
				status = StatusError
			}
			m.Requests.WithLabelValues(req.Method, status).Inc()
			return resp, err
		}
	}
}
