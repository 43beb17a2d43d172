package bdev

import (
	"context"
	"encoding/json"
)

type IscsiCreateRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	// IQN the initiator logs in with.
	InitiatorIQN string `json:"initiator_iqn"`
}

func IscsiCreate(ctx context.Context, c Caller, req IscsiCreateRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodIscsiCreate, req)
}

func IscsiDelete(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodIscsiDelete, name)
}
