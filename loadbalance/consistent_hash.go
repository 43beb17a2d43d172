package loadbalance

import (
	"fmt"
	"hash/crc32"
	"sort"
	"strings"
	"sync"

	"bdev-rpc/registry"
)

// ConsistentHashBalancer maps routing keys to instances on a hash ring, so
// that every call about the same bdev reaches the same target as long as the
// instance set is stable. Each instance owns replicas virtual nodes to keep
// the distribution even.
//
//	Hash Ring:
//	                  0
//	                ╱   ╲
//	         B ●               ● A
//	           │    key ◆──►   │   (clockwise to nearest node → A)
//	         C ●               ● A' (virtual node of A)
//	                ╲   ╱
type ConsistentHashBalancer struct {
	mu        sync.Mutex
	replicas  int
	ring      []uint32                             // Sorted hash values on the ring
	nodes     map[uint32]*registry.ServiceInstance // Hash value → instance
	signature string                               // Instance set the ring was built from
}

// NewConsistentHashBalancer creates a hash ring with 100 virtual nodes per instance.
func NewConsistentHashBalancer() *ConsistentHashBalancer {
	return &ConsistentHashBalancer{
		replicas: 100,
		nodes:    make(map[uint32]*registry.ServiceInstance),
	}
}

// Add places an instance onto the ring. Each virtual node hashes "{addr}#{i}".
func (b *ConsistentHashBalancer) Add(instance *registry.ServiceInstance) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.add(instance)
}

func (b *ConsistentHashBalancer) add(instance *registry.ServiceInstance) {
	for i := 0; i < b.replicas; i++ {
		hash := crc32.ChecksumIEEE([]byte(fmt.Sprintf("%s#%d", instance.Addr, i)))
		b.ring = append(b.ring, hash)
		b.nodes[hash] = instance
	}
	sort.Slice(b.ring, func(i, j int) bool {
		return b.ring[i] < b.ring[j]
	})
}

// sync rebuilds the ring when the discovered instance set changed.
func (b *ConsistentHashBalancer) sync(instances []registry.ServiceInstance) {
	addrs := make([]string, 0, len(instances))
	for _, inst := range instances {
		addrs = append(addrs, inst.Network+"://"+inst.Addr)
	}
	sort.Strings(addrs)
	signature := strings.Join(addrs, ",")
	if signature == b.signature {
		return
	}

	b.ring = nil
	b.nodes = make(map[uint32]*registry.ServiceInstance)
	for i := range instances {
		inst := instances[i]
		b.add(&inst)
	}
	b.signature = signature
}

// Pick hashes key and returns the first node clockwise from it. A nil or
// empty instances list picks from the instances added with Add.
func (b *ConsistentHashBalancer) Pick(key string, instances []registry.ServiceInstance) (*registry.ServiceInstance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(instances) > 0 {
		b.sync(instances)
	}
	if len(b.ring) == 0 {
		return nil, ErrNoInstances
	}

	hash := crc32.ChecksumIEEE([]byte(key))
	idx := sort.Search(len(b.ring), func(i int) bool {
		return b.ring[i] >= hash
	})
	if idx == len(b.ring) {
		idx = 0
	}

	inst := *b.nodes[b.ring[idx]]
	return &inst, nil
}

func (b *ConsistentHashBalancer) Name() string {
	return NameConsistentHash
}
