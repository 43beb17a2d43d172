package bdev

import (
	"context"
	"encoding/json"
)

type passthruCreateRequest struct {
	BaseBdevName string `json:"base_bdev_name"`
	Name         string `json:"name"`
}

func PassthruCreate(ctx context.Context, c Caller, baseBdevName, name string) (json.RawMessage, error) {
	return c.Call(ctx, MethodPassthruCreate, passthruCreateRequest{BaseBdevName: baseBdevName, Name: name})
}

func PassthruDelete(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodPassthruDelete, name)
}
