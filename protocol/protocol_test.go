package protocol

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	req := []byte(`{"jsonrpc":"2.0","id":12345,"method":"bdev_malloc_create","params":{"num_blocks":1,"block_size":512}}`)
	resp := []byte(`{"jsonrpc":"2.0","id":12345,"result":"Malloc0"}`)
	require.NoError(t, Encode(&buf, req))
	require.NoError(t, Encode(&buf, resp))

	d := NewDecoder(&buf)

	header, body, err := d.Decode()
	require.NoError(t, err)
	assert.Equal(t, MsgTypeRequest, header.MsgType)
	assert.Equal(t, uint32(12345), header.ID)
	assert.Equal(t, "bdev_malloc_create", header.Method)
	assert.Equal(t, req, body)

	header, body, err = d.Decode()
	require.NoError(t, err)
	assert.Equal(t, MsgTypeResponse, header.MsgType)
	assert.Equal(t, uint32(12345), header.ID)
	assert.Empty(t, header.Method)
	assert.Equal(t, resp, body)

	_, _, err = d.Decode()
	assert.Equal(t, io.EOF, err)
}

func TestDecodeSplitFrames(t *testing.T) {
	// Frames may be pretty-printed and arrive in arbitrary chunks.
	pr, pw := io.Pipe()
	go func() {
		pw.Write([]byte("{\n\t\"jsonrpc\": \"2.0\",\n\t\"id\": 1,"))
		pw.Write([]byte("\n\t\"result\": true\n}"))
		pw.Write([]byte(`{"jsonrpc":"2.0","method":"notify"}`))
		pw.Close()
	}()

	d := NewDecoder(pr)
	header, _, err := d.Decode()
	require.NoError(t, err)
	assert.Equal(t, MsgTypeResponse, header.MsgType)
	assert.Equal(t, uint32(1), header.ID)

	header, _, err = d.Decode()
	require.NoError(t, err)
	assert.Equal(t, MsgTypeNotification, header.MsgType)
	assert.Equal(t, "notify", header.Method)
}

func TestDecodeInvalidVersion(t *testing.T) {
	d := NewDecoder(strings.NewReader(`{"jsonrpc":"1.0","id":1,"result":true}`))
	_, _, err := d.Decode()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported version")
}

func TestDecodeNotAnObject(t *testing.T) {
	d := NewDecoder(strings.NewReader(`[1,2,3]`))
	_, _, err := d.Decode()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expect a JSON object")
}

func TestDecodeGarbage(t *testing.T) {
	d := NewDecoder(strings.NewReader(`GET / HTTP/1.1`))
	_, _, err := d.Decode()
	assert.Error(t, err)
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Encode(&buf, nil))
}

func TestMsgTypeString(t *testing.T) {
	assert.Equal(t, "request", MsgTypeRequest.String())
	assert.Equal(t, "response", MsgTypeResponse.String())
	assert.Equal(t, "notification", MsgTypeNotification.String())
}
