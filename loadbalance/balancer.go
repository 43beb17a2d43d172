// Package loadbalance picks the target instance a call is sent to when a
// target name resolves to more than one endpoint.
//
// Three strategies are implemented:
//   - RoundRobin:      spread read-only queries evenly
//   - WeightedRandom:  instances with different capacity
//   - ConsistentHash:  keep every call about one bdev on the same instance
package loadbalance

import (
	"github.com/pkg/errors"

	"bdev-rpc/registry"
)

var ErrNoInstances = errors.New("no instances available")

// Balancer is the interface for load balancing strategies.
// The client calls Pick() before each RPC to select a target instance.
type Balancer interface {
	// Pick selects one instance from the available list. key is the routing
	// key of the call and may be empty; strategies that are not key-based
	// ignore it. Must be goroutine-safe.
	Pick(key string, instances []registry.ServiceInstance) (*registry.ServiceInstance, error)

	// Name returns the strategy name (for logging/debugging).
	Name() string
}

const (
	NameRoundRobin     = "round_robin"
	NameWeightedRandom = "weighted_random"
	NameConsistentHash = "consistent_hash"
)

// New returns the balancer registered under name.
func New(name string) (Balancer, error) {
	switch name {
	case "", NameRoundRobin:
		return &RoundRobinBalancer{}, nil
	case NameWeightedRandom:
		return &WeightedRandomBalancer{}, nil
	case NameConsistentHash:
		return NewConsistentHashBalancer(), nil
	}
	return nil, errors.Errorf("unknown balancer %q", name)
}
