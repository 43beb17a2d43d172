package bdev

import (
	"context"
	"encoding/json"
)

// RbdCreateRequest describes a Ceph RBD bdev. User and Config are sent
// whenever they are set, even when empty.
type RbdCreateRequest struct {
	PoolName  string
	RbdName   string
	BlockSize uint32
	Name      *string
	User      *string
	Config    map[string]string
}

type rbdCreateWire struct {
	PoolName  string             `json:"pool_name"`
	RbdName   string             `json:"rbd_name"`
	BlockSize uint32             `json:"block_size"`
	Name      *string            `json:"name,omitempty"`
	UserID    *string            `json:"user_id,omitempty"`
	Config    *map[string]string `json:"config,omitempty"`
}

func (r RbdCreateRequest) MarshalJSON() ([]byte, error) {
	w := rbdCreateWire{
		PoolName:  r.PoolName,
		RbdName:   r.RbdName,
		BlockSize: r.BlockSize,
		Name:      r.Name,
		UserID:    r.User,
	}
	if r.Config != nil {
		w.Config = &r.Config
	}
	return json.Marshal(w)
}

func RbdCreate(ctx context.Context, c Caller, req RbdCreateRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodRbdCreate, req)
}

func RbdDelete(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodRbdDelete, name)
}
