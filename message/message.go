// Package message defines the JSON-RPC 2.0 envelopes exchanged with a storage target.
//
// A Request is serialized by the codec layer and written as one frame on the
// socket. The target answers with a Response carrying the same ID and either a
// Result or an Error.
package message

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const Version = "2.0"

// Request carries a single remote call.
//
//   - Method is the operation name, e.g. "bdev_malloc_create".
//   - Params is left out of the wire object when it is nil or marshals to "{}".
//   - A Request without ID is a notification: the target sends nothing back.
type Request struct {
	Version string          `json:"jsonrpc"`
	ID      *uint32         `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NewRequest marshals params and builds a request with the given id.
func NewRequest(id uint32, method string, params any) (*Request, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	return &Request{
		Version: Version,
		ID:      &id,
		Method:  method,
		Params:  raw,
	}, nil
}

// NewNotification builds a request that expects no response.
func NewNotification(method string, params any) (*Request, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	return &Request{
		Version: Version,
		Method:  method,
		Params:  raw,
	}, nil
}

func marshalParams(params any) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %v", err)
	}
	// The target treats a missing object and an empty one the same way; keep
	// the wire free of both "null" and "{}".
	if bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte("{}")) {
		return nil, nil
	}
	return raw, nil
}

// IsNotification reports whether the request expects no response.
func (r *Request) IsNotification() bool {
	return r.ID == nil
}

// Response is the reply to a Request. Exactly one of Result and Error is set.
// ID is nil when the target could not identify the request, e.g. on a parse
// error; it is then sent as null.
type Response struct {
	Version string          `json:"jsonrpc"`
	ID      *uint32         `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

// NewResult builds a successful response for the request id.
func NewResult(id uint32, result any) (*Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %v", err)
	}
	return &Response{Version: Version, ID: &id, Result: raw}, nil
}

// NewErrorResponse builds a failed response for the request id.
func NewErrorResponse(id uint32, code ErrorCode, msg string) *Response {
	return &Response{
		Version: Version,
		ID:      &id,
		Error:   &ResponseError{Code: code, Message: msg},
	}
}

// NewUnidentifiedErrorResponse builds a failed response with a null id, for
// input that could not be parsed far enough to find the request id.
func NewUnidentifiedErrorResponse(code ErrorCode, msg string) *Response {
	return &Response{
		Version: Version,
		Error:   &ResponseError{Code: code, Message: msg},
	}
}
