package bdev

import (
	"context"
	"encoding/json"
)

type SetOptionsRequest struct {
	// Number of bdev_io structures in the shared buffer pool.
	BdevIOPoolSize *uint32 `json:"bdev_io_pool_size,omitempty"`
	// Maximum number of bdev_io structures cached per thread.
	BdevIOCacheSize *uint32 `json:"bdev_io_cache_size,omitempty"`
}

// SetOptions sets parameters of the bdev subsystem. It must be called before
// the subsystem is initialized.
func SetOptions(ctx context.Context, c Caller, req SetOptionsRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodSetOptions, req)
}
