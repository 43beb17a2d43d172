package message

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestWire(t *testing.T) {
	req, err := NewRequest(7, "bdev_malloc_create", map[string]any{"num_blocks": 100, "block_size": 512})
	require.NoError(t, err)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":7,"method":"bdev_malloc_create","params":{"num_blocks":100,"block_size":512}}`, string(data))
}

func TestRequestEmptyParamsOmitted(t *testing.T) {
	for _, params := range []any{nil, map[string]any{}, struct{}{}} {
		req, err := NewRequest(1, "get_bdevs", params)
		require.NoError(t, err)

		data, err := json.Marshal(req)
		require.NoError(t, err)
		assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"method":"get_bdevs"}`, string(data))
	}

	// A typed nil pointer marshals to "null" and is dropped as well.
	var p *struct{ Name string }
	req, err := NewRequest(2, "get_bdevs", p)
	require.NoError(t, err)
	assert.Nil(t, req.Params)
}

func TestNotification(t *testing.T) {
	req, err := NewNotification("framework_wait_init", nil)
	require.NoError(t, err)
	assert.True(t, req.IsNotification())

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","method":"framework_wait_init"}`, string(data))
}

func TestResponseDecode(t *testing.T) {
	var resp Response
	err := json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":3,"result":"Malloc0"}`), &resp)
	require.NoError(t, err)
	require.NotNil(t, resp.ID)
	assert.Equal(t, uint32(3), *resp.ID)
	assert.Nil(t, resp.Error)
	assert.Equal(t, `"Malloc0"`, string(resp.Result))

	err = json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":4,"error":{"code":-19,"message":"No such device"}}`), &resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	assert.True(t, IsNoSuchDevice(resp.Error))
}

func TestUnidentifiedErrorResponse(t *testing.T) {
	data, err := json.Marshal(NewUnidentifiedErrorResponse(ErrorCodeParse, "Parse error"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":null,"error":{"code":-32700,"message":"Parse error"}}`, string(data))

	var resp Response
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Nil(t, resp.ID)
}

func TestErrorPredicates(t *testing.T) {
	err := errors.Wrap(&ResponseError{Code: ErrorCodeFileExists, Message: "File exists"}, "bdev_malloc_create")
	assert.True(t, IsFileExists(err))
	assert.False(t, IsNoSuchDevice(err))
	assert.False(t, IsMethodNotFound(errors.New("connection refused")))

	assert.True(t, IsMethodNotFound(NewErrorResponse(1, ErrorCodeMethodNotFound, "Method not found").Error))
	assert.Contains(t, (&ResponseError{Code: -32602, Message: "Invalid parameters"}).Error(), "-32602")
}
