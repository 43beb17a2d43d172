package bdev

import (
	"context"
	"encoding/json"
)

type pmemCreateRequest struct {
	PmemFile string `json:"pmem_file"`
	Name     string `json:"name"`
}

// PmemCreate constructs a libpmemblk bdev on the pool file pmemFile.
func PmemCreate(ctx context.Context, c Caller, pmemFile, name string) (json.RawMessage, error) {
	return c.Call(ctx, MethodPmemCreate, pmemCreateRequest{PmemFile: pmemFile, Name: name})
}

func PmemDelete(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodPmemDelete, name)
}
