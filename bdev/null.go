package bdev

import (
	"context"
	"encoding/json"
)

type NullCreateRequest struct {
	Name      string `json:"name"`
	NumBlocks uint64 `json:"num_blocks"`
	// The data part must be a power of 2 and at least 512.
	BlockSize uint32  `json:"block_size"`
	UUID      *string `json:"uuid,omitempty"`
	// Metadata size in bytes.
	MdSize  *uint32  `json:"md_size,omitempty"`
	DifType *DifType `json:"dif_type,omitempty"`
	// Protection information sits in the first 8 bytes of metadata.
	DifIsHeadOfMd *bool `json:"dif_is_head_of_md,omitempty"`
}

// NullCreate constructs a bdev that discards writes and returns zeroes.
func NullCreate(ctx context.Context, c Caller, req NullCreateRequest) (json.RawMessage, error) {
	if err := validateUUID("uuid", req.UUID); err != nil {
		return nil, err
	}
	return c.Call(ctx, MethodNullCreate, req)
}

func NullDelete(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodNullDelete, name)
}
