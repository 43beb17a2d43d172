package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/pointer"

	"bdev-rpc/bdev"
	"bdev-rpc/loadbalance"
	"bdev-rpc/message"
	"bdev-rpc/middleware"
	"bdev-rpc/protocol"
	"bdev-rpc/registry"
	"bdev-rpc/server"
)

// target is an in-memory stand-in for a storage target.
type target struct {
	mu    sync.Mutex
	bdevs map[string]uint64
	seen  []string
}

func (tg *target) record(method string) {
	tg.mu.Lock()
	tg.seen = append(tg.seen, method)
	tg.mu.Unlock()
}

func (tg *target) methods() []string {
	tg.mu.Lock()
	defer tg.mu.Unlock()
	return append([]string(nil), tg.seen...)
}

func startTarget(t *testing.T) (string, *target) {
	tg := &target{bdevs: map[string]uint64{}}
	svr := server.NewServer()
	svr.RegisterAliases(bdev.DeprecatedAliases)

	svr.Register(bdev.MethodMallocCreate, func(ctx context.Context, params json.RawMessage) (any, error) {
		tg.record(bdev.MethodMallocCreate)
		var req struct {
			NumBlocks uint64 `json:"num_blocks"`
			BlockSize uint32 `json:"block_size"`
			Name      string `json:"name"`
		}
		if err := server.DecodeParams(params, &req); err != nil {
			return nil, err
		}
		tg.mu.Lock()
		defer tg.mu.Unlock()
		if req.Name == "" {
			req.Name = fmt.Sprintf("Malloc%d", len(tg.bdevs))
		}
		if _, ok := tg.bdevs[req.Name]; ok {
			return nil, &message.ResponseError{Code: message.ErrorCodeFileExists, Message: "File exists"}
		}
		tg.bdevs[req.Name] = req.NumBlocks * uint64(req.BlockSize)
		return req.Name, nil
	})
	svr.Register(bdev.MethodMallocDelete, func(ctx context.Context, params json.RawMessage) (any, error) {
		tg.record(bdev.MethodMallocDelete)
		var req struct {
			Name string `json:"name"`
		}
		if err := server.DecodeParams(params, &req); err != nil {
			return nil, err
		}
		tg.mu.Lock()
		defer tg.mu.Unlock()
		if _, ok := tg.bdevs[req.Name]; !ok {
			return nil, &message.ResponseError{Code: message.ErrorCodeNoSuchDevice, Message: "No such device"}
		}
		delete(tg.bdevs, req.Name)
		return true, nil
	})
	svr.Register(bdev.MethodGetBdevs, func(ctx context.Context, params json.RawMessage) (any, error) {
		tg.record(bdev.MethodGetBdevs)
		tg.mu.Lock()
		defer tg.mu.Unlock()
		names := []map[string]any{}
		for name := range tg.bdevs {
			names = append(names, map[string]any{"name": name})
		}
		return names, nil
	})

	sock := filepath.Join(t.TempDir(), "spdk.sock")
	l, err := net.Listen("unix", sock)
	require.NoError(t, err)
	go svr.ServeListener(l)
	t.Cleanup(func() { svr.Shutdown(time.Second) })
	return sock, tg
}

func newTestClient(t *testing.T, sock string, opts ...Option) *Client {
	cfg := DefaultConfig()
	cfg.Address = sock
	cfg.Timeout = Duration(2 * time.Second)
	c, err := NewClient(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClientBdevCalls(t *testing.T) {
	sock, _ := startTarget(t)
	c := newTestClient(t, sock)
	ctx := context.Background()

	name, err := bdev.Into[string](bdev.MallocCreate(ctx, c, bdev.MallocCreateRequest{
		NumBlocks: 100,
		BlockSize: 512,
		Name:      pointer.String("Malloc7"),
	}))
	require.NoError(t, err)
	assert.Equal(t, "Malloc7", name)

	list, err := bdev.Into[[]map[string]any](bdev.GetBdevs(ctx, c, bdev.GetBdevsRequest{}))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Malloc7", list[0]["name"])

	deleted, err := bdev.Into[bool](bdev.MallocDelete(ctx, c, "Malloc7"))
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestClientDeprecatedWrapperSendsCurrentName(t *testing.T) {
	sock, tg := startTarget(t)
	c := newTestClient(t, sock)
	ctx := context.Background()

	_, err := bdev.ConstructMallocBdev(ctx, c, bdev.MallocCreateRequest{NumBlocks: 1, BlockSize: 512})
	require.NoError(t, err)

	// A raw call with the legacy name reaches the same handler through the
	// target's alias table.
	_, err = c.Call(ctx, "construct_malloc_bdev", map[string]any{"num_blocks": 1, "block_size": 512})
	require.NoError(t, err)

	assert.Equal(t, []string{bdev.MethodMallocCreate, bdev.MethodMallocCreate}, tg.methods())
}

func TestClientTargetErrors(t *testing.T) {
	sock, _ := startTarget(t)
	c := newTestClient(t, sock)
	ctx := context.Background()

	_, err := bdev.MallocDelete(ctx, c, "Malloc404")
	require.Error(t, err)
	assert.True(t, message.IsNoSuchDevice(err))

	_, err = c.Call(ctx, "bdev_lvol_create", nil)
	require.Error(t, err)
	assert.True(t, message.IsMethodNotFound(err))

	_, err = c.Call(ctx, bdev.MethodMallocDelete, map[string]any{"name": 5})
	require.Error(t, err)
	assert.True(t, message.IsInvalidParams(err))

	_, err = bdev.MallocCreate(ctx, c, bdev.MallocCreateRequest{NumBlocks: 1, BlockSize: 512, Name: pointer.String("Dup")})
	require.NoError(t, err)
	_, err = bdev.MallocCreate(ctx, c, bdev.MallocCreateRequest{NumBlocks: 1, BlockSize: 512, Name: pointer.String("Dup")})
	assert.True(t, message.IsFileExists(err))
}

func TestClientConcurrentCalls(t *testing.T) {
	sock, tg := startTarget(t)
	c := newTestClient(t, sock)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := bdev.MallocCreate(ctx, c, bdev.MallocCreateRequest{
				NumBlocks: 8,
				BlockSize: 512,
				Name:      pointer.String(fmt.Sprintf("Malloc%d", n)),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	tg.mu.Lock()
	defer tg.mu.Unlock()
	assert.Len(t, tg.bdevs, 32)
}

func TestClientTargetDown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Address = filepath.Join(t.TempDir(), "missing.sock")
	cfg.RetryCount = 2
	cfg.RetryDelay = Duration(time.Millisecond)
	c, err := NewClient(cfg)
	require.NoError(t, err)
	defer c.Close()

	_, err = bdev.GetBdevs(context.Background(), c, bdev.GetBdevsRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect")
}

func TestClientDoesNotRetrySentCalls(t *testing.T) {
	// The target reads each request and hangs up without answering.
	sock := filepath.Join(t.TempDir(), "spdk.sock")
	l, err := net.Listen("unix", sock)
	require.NoError(t, err)
	defer l.Close()

	var frames int32
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			if _, _, err := protocol.NewDecoder(conn).Decode(); err == nil {
				atomic.AddInt32(&frames, 1)
			}
			conn.Close()
		}
	}()

	cfg := DefaultConfig()
	cfg.Address = sock
	cfg.RetryCount = 2
	cfg.RetryDelay = Duration(time.Millisecond)
	c, err := NewClient(cfg)
	require.NoError(t, err)
	defer c.Close()

	_, err = bdev.MallocCreate(context.Background(), c, bdev.MallocCreateRequest{NumBlocks: 1, BlockSize: 512})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection lost")
	assert.Equal(t, int32(1), atomic.LoadInt32(&frames))
}

func TestNewClientConfigErrors(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"codec":    func(cfg *Config) { cfg.Codec = "jsno" },
		"balancer": func(cfg *Config) { cfg.Balancer = "random_robin" },
		"network":  func(cfg *Config) { cfg.Network = "udp" },
	} {
		cfg := DefaultConfig()
		// Endpoints that would need closing if a registry were opened.
		cfg.EtcdEndpoints = []string{"127.0.0.1:1"}
		mutate(&cfg)
		c, err := NewClient(cfg)
		assert.Error(t, err, name)
		assert.Nil(t, c, name)
	}
}

func TestClientWithRegistryAndMetrics(t *testing.T) {
	sock1, tg1 := startTarget(t)
	sock2, tg2 := startTarget(t)

	reg := registry.NewStaticRegistry()
	require.NoError(t, reg.Register(DefaultTarget, registry.ServiceInstance{Network: "unix", Addr: sock1, Weight: 1}, 0))
	require.NoError(t, reg.Register(DefaultTarget, registry.ServiceInstance{Network: "unix", Addr: sock2, Weight: 1}, 0))

	promReg := prometheus.NewRegistry()
	var traced int32
	trace := func(next middleware.HandlerFunc) middleware.HandlerFunc {
		return func(ctx context.Context, req *message.Request) (*message.Response, error) {
			atomic.AddInt32(&traced, 1)
			return next(ctx, req)
		}
	}
	c := newTestClient(t, "", WithRegistry(reg), WithBalancer(loadbalance.NewConsistentHashBalancer()), WithMetrics(promReg), WithMiddleware(trace))

	// Every call about one bdev lands on the same target.
	ctx := WithRoutingKey(context.Background(), "Malloc0")
	_, err := bdev.MallocCreate(ctx, c, bdev.MallocCreateRequest{NumBlocks: 1, BlockSize: 512, Name: pointer.String("Malloc0")})
	require.NoError(t, err)
	_, err = bdev.MallocDelete(ctx, c, "Malloc0")
	require.NoError(t, err)

	seen1, seen2 := tg1.methods(), tg2.methods()
	assert.Equal(t, 2, len(seen1)+len(seen2))
	assert.True(t, len(seen1) == 0 || len(seen2) == 0)
	assert.Equal(t, int32(2), atomic.LoadInt32(&traced))

	m, err := middleware.NewMetrics(promReg)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(bdev.MethodMallocCreate, middleware.StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(bdev.MethodMallocDelete, middleware.StatusOK)))
}

func TestClientClose(t *testing.T) {
	sock, _ := startTarget(t)
	c := newTestClient(t, sock)

	_, err := bdev.GetBdevs(context.Background(), c, bdev.GetBdevsRequest{})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = bdev.GetBdevs(context.Background(), c, bdev.GetBdevsRequest{})
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
address: /run/spdk/spdk.sock
timeout: 90s
retry_count: 3
retry_delay: 250ms
rate_limit: 50
balancer: consistent_hash
codec: json-indent
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/run/spdk/spdk.sock", cfg.Address)
	assert.Equal(t, DefaultNetwork, cfg.Network)
	assert.Equal(t, DefaultTarget, cfg.Target)
	assert.Equal(t, Duration(90*time.Second), cfg.Timeout)
	assert.Equal(t, uint(3), cfg.RetryCount)
	assert.Equal(t, Duration(250*time.Millisecond), cfg.RetryDelay)
	assert.Equal(t, 50.0, cfg.RateLimit)
	assert.Equal(t, DefaultPoolSize, cfg.PoolSize)
	assert.Equal(t, "consistent_hash", cfg.Balancer)
	assert.Equal(t, "json-indent", cfg.Codec)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("timeout: soon\n"), 0644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("adress: /tmp/x.sock\n"), 0644))
	_, err = LoadConfig(unknown)
	assert.Error(t, err)

	codecName := filepath.Join(dir, "codec.yaml")
	require.NoError(t, os.WriteFile(codecName, []byte("codec: jsno\n"), 0644))
	_, err = LoadConfig(codecName)
	assert.Error(t, err)

	network := filepath.Join(dir, "network.yaml")
	require.NoError(t, os.WriteFile(network, []byte("network: udp\n"), 0644))
	_, err = LoadConfig(network)
	assert.Error(t, err)
}
