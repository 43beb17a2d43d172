package bdev

import (
	"context"
	"encoding/json"
)

type OCFCreateRequest struct {
	Name          string       `json:"name"`
	Mode          OCFCacheMode `json:"mode"`
	CacheBdevName string       `json:"cache_bdev_name"`
	CoreBdevName  string       `json:"core_bdev_name"`
}

func OCFCreate(ctx context.Context, c Caller, req OCFCreateRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodOCFCreate, req)
}

func OCFDelete(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodOCFDelete, name)
}

func OCFGetStats(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodOCFGetStats, name)
}

type OCFGetBdevsRequest struct {
	// Name of an OCF vbdev or of its cache or core device.
	Name *string `json:"name,omitempty"`
}

// OCFGetBdevs lists OCF devices, including ones still waiting for their base
// devices. The request carries no params at all when Name is nil.
func OCFGetBdevs(ctx context.Context, c Caller, req OCFGetBdevsRequest) (json.RawMessage, error) {
	if req.Name == nil {
		return c.Call(ctx, MethodOCFGetBdevs, nil)
	}
	return c.Call(ctx, MethodOCFGetBdevs, req)
}
