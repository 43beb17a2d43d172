package bdev

import (
	"context"
	"encoding/json"
)

type MallocCreateRequest struct {
	NumBlocks uint64 `json:"num_blocks"`
	// Must be a power of 2 and at least 512.
	BlockSize uint32  `json:"block_size"`
	Name      *string `json:"name,omitempty"`
	UUID      *string `json:"uuid,omitempty"`
}

// MallocCreate constructs a RAM backed bdev and returns its name.
func MallocCreate(ctx context.Context, c Caller, req MallocCreateRequest) (json.RawMessage, error) {
	if err := validateUUID("uuid", req.UUID); err != nil {
		return nil, err
	}
	return c.Call(ctx, MethodMallocCreate, req)
}

func MallocDelete(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodMallocDelete, name)
}
