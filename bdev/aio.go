package bdev

import (
	"context"
	"encoding/json"
)

type AioCreateRequest struct {
	Name string `json:"name"`
	// Path to a device or file, e.g. /dev/sda.
	Filename string `json:"filename"`
	// Detected from the device when nil.
	BlockSize *uint32 `json:"block_size,omitempty"`
}

// AioCreate constructs a Linux AIO bdev and returns its name.
func AioCreate(ctx context.Context, c Caller, req AioCreateRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodAioCreate, req)
}

func AioDelete(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodAioDelete, name)
}
