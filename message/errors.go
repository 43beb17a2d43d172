package message

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorCode int32

// JSON-RPC 2.0 reserved codes.
const (
	ErrorCodeParse          ErrorCode = -32700
	ErrorCodeInvalidRequest ErrorCode = -32600
	ErrorCodeMethodNotFound ErrorCode = -32601
	ErrorCodeInvalidParams  ErrorCode = -32602
	ErrorCodeInternal       ErrorCode = -32603
)

// Negated errno values returned by the storage target.
const (
	ErrorCodeNoSuchProcess ErrorCode = -3
	ErrorCodeFileExists    ErrorCode = -17
	ErrorCodeNoSuchDevice  ErrorCode = -19
)

// ResponseError is the error object of a failed Response. It is returned to
// callers as-is, so it can be matched with errors.As.
type ResponseError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("{\"code\": %d, \"message\": %q}", e.Code, e.Message)
}

// NotSentError marks a failure that happened before the request frame reached
// the connection. The target never saw such a call.
type NotSentError struct {
	Err error
}

func (e *NotSentError) Error() string { return e.Err.Error() }

func (e *NotSentError) Unwrap() error { return e.Err }

func hasCode(err error, code ErrorCode) bool {
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		return false
	}
	return respErr.Code == code
}

func IsMethodNotFound(err error) bool {
	return hasCode(err, ErrorCodeMethodNotFound)
}

func IsInvalidParams(err error) bool {
	return hasCode(err, ErrorCodeInvalidParams)
}

func IsNoSuchDevice(err error) bool {
	return hasCode(err, ErrorCodeNoSuchDevice)
}

func IsFileExists(err error) bool {
	return hasCode(err, ErrorCodeFileExists)
}

func IsNoSuchProcess(err error) bool {
	return hasCode(err, ErrorCodeNoSuchProcess)
}
