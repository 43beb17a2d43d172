package registry

import (
	"sync"

	"github.com/pkg/errors"
)

// StaticRegistry keeps instances in memory. It serves the common case of a
// single local target socket and needs no external service.
type StaticRegistry struct {
	mu        sync.RWMutex
	instances map[string][]ServiceInstance
}

func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{instances: make(map[string][]ServiceInstance)}
}

// Register adds or replaces the instance with the same address. ttl is ignored.
func (r *StaticRegistry) Register(serviceName string, instance ServiceInstance, ttl int64) error {
	if instance.Addr == "" {
		return errors.New("instance address is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	insts := r.instances[serviceName]
	for i := range insts {
		if insts[i].Addr == instance.Addr {
			insts[i] = instance
			return nil
		}
	}
	r.instances[serviceName] = append(insts, instance)
	return nil
}

func (r *StaticRegistry) Deregister(serviceName string, addr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	insts := r.instances[serviceName]
	for i, inst := range insts {
		if inst.Addr == addr {
			r.instances[serviceName] = append(insts[:i:i], insts[i+1:]...)
			break
		}
	}
	return nil
}

func (r *StaticRegistry) Discover(serviceName string) ([]ServiceInstance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	insts := make([]ServiceInstance, len(r.instances[serviceName]))
	copy(insts, r.instances[serviceName])
	return insts, nil
}

// Watch is not supported: a static registry never changes behind the caller's back.
func (r *StaticRegistry) Watch(serviceName string) <-chan []ServiceInstance {
	return nil
}
