package bdev

import (
	"context"
	"encoding/json"
)

const DefaultErrorInjectNum = 1

type errorCreateRequest struct {
	BaseName string `json:"base_name"`
}

// ErrorCreate constructs an error injection bdev on top of baseName.
func ErrorCreate(ctx context.Context, c Caller, baseName string) (json.RawMessage, error) {
	return c.Call(ctx, MethodErrorCreate, errorCreateRequest{BaseName: baseName})
}

func ErrorDelete(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodErrorDelete, name)
}

type ErrorInjectErrorRequest struct {
	Name      string
	IOType    ErrorIOType
	ErrorType ErrorType
	// Number of commands to fail; DefaultErrorInjectNum when nil.
	Num *uint32
}

type errorInjectErrorWire struct {
	Name      string      `json:"name"`
	IOType    ErrorIOType `json:"io_type"`
	ErrorType ErrorType   `json:"error_type"`
	Num       uint32      `json:"num"`
}

func (r ErrorInjectErrorRequest) MarshalJSON() ([]byte, error) {
	num := uint32(DefaultErrorInjectNum)
	if r.Num != nil {
		num = *r.Num
	}
	return json.Marshal(errorInjectErrorWire{
		Name:      r.Name,
		IOType:    r.IOType,
		ErrorType: r.ErrorType,
		Num:       num,
	})
}

func ErrorInjectError(ctx context.Context, c Caller, req ErrorInjectErrorRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodErrorInjectError, req)
}
