package registry

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestEtcdRegistry connects to $ETCD_ENDPOINT (default localhost:2379) and
// skips the test when no etcd answers.
func newTestEtcdRegistry(t *testing.T) *EtcdRegistry {
	endpoint := os.Getenv("ETCD_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:2379"
	}
	reg, err := NewEtcdRegistry([]string{endpoint})
	if err != nil {
		t.Skipf("etcd not available: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := reg.client.Status(ctx, endpoint); err != nil {
		reg.Close()
		t.Skipf("etcd not available: %v", err)
	}
	t.Cleanup(func() { reg.Close() })
	return reg
}

func TestRegisterAndDiscover(t *testing.T) {
	reg := newTestEtcdRegistry(t)

	inst1 := ServiceInstance{Network: "tcp", Addr: "127.0.0.1:5260", Weight: 10, Version: "19.10"}
	inst2 := ServiceInstance{Network: "tcp", Addr: "127.0.0.1:5261", Weight: 5, Version: "19.10"}

	require.NoError(t, reg.Register("spdk-test", inst1, 10))
	require.NoError(t, reg.Register("spdk-test", inst2, 10))
	defer reg.Deregister("spdk-test", inst2.Addr)

	instances, err := reg.Discover("spdk-test")
	require.NoError(t, err)
	assert.ElementsMatch(t, []ServiceInstance{inst1, inst2}, instances)

	require.NoError(t, reg.Deregister("spdk-test", inst1.Addr))

	instances, err = reg.Discover("spdk-test")
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, inst2, instances[0])
}

func TestWatch(t *testing.T) {
	reg := newTestEtcdRegistry(t)

	ch := reg.Watch("spdk-watch")
	time.Sleep(100 * time.Millisecond)

	inst := ServiceInstance{Network: "unix", Addr: "/var/tmp/spdk-watch.sock", Weight: 1}
	require.NoError(t, reg.Register("spdk-watch", inst, 10))
	defer reg.Deregister("spdk-watch", inst.Addr)

	select {
	case instances := <-ch:
		assert.Contains(t, instances, inst)
	case <-time.After(5 * time.Second):
		t.Fatal("no watch update received")
	}
}
