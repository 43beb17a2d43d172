// Package bdev marshals block device management calls for a storage target.
//
// Every operation builds the parameter object of one remote method and hands
// it to a Caller together with the method name. Optional parameters are
// pointer fields: nil leaves the key out so the target applies its default,
// any non-nil value is sent as is, zero included.
//
// Results are returned undecoded. Errors from the Caller are returned as they
// are; the only errors produced here come from validating arguments before
// anything is sent.
package bdev

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Caller performs one remote call. *client.Client implements it.
type Caller interface {
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)
}

// ErrInvalidArgument is wrapped by every local validation error.
var ErrInvalidArgument = errors.New("invalid argument")

// Into decodes a call result. It is meant to wrap a call directly:
//
//	name, err := bdev.Into[string](bdev.MallocCreate(ctx, c, req))
func Into[T any](raw json.RawMessage, err error) (T, error) {
	var v T
	if err != nil {
		return v, err
	}
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, errors.Wrapf(err, "failed to decode result %s", string(raw))
	}
	return v, nil
}

type nameRequest struct {
	Name string `json:"name"`
}

func callName(ctx context.Context, c Caller, method, name string) (json.RawMessage, error) {
	return c.Call(ctx, method, nameRequest{Name: name})
}

func validateUUID(field string, v *string) error {
	if v == nil {
		return nil
	}
	if _, err := uuid.Parse(*v); err != nil {
		return errors.Wrapf(ErrInvalidArgument, "%v %q is not a valid UUID", field, *v)
	}
	return nil
}
