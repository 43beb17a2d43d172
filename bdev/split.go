package bdev

import (
	"context"
	"encoding/json"
)

type SplitCreateRequest struct {
	BaseBdev   string `json:"base_bdev"`
	SplitCount uint32 `json:"split_count"`
	// Size of each split in MiB; the base bdev is divided evenly when nil.
	SplitSizeMB *uint64 `json:"split_size_mb,omitempty"`
}

// SplitCreate splits a bdev and returns the names of the parts.
func SplitCreate(ctx context.Context, c Caller, req SplitCreateRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodSplitCreate, req)
}

type splitDeleteRequest struct {
	BaseBdev string `json:"base_bdev"`
}

// SplitDelete removes every split of baseBdev.
func SplitDelete(ctx context.Context, c Caller, baseBdev string) (json.RawMessage, error) {
	return c.Call(ctx, MethodSplitDelete, splitDeleteRequest{BaseBdev: baseBdev})
}
