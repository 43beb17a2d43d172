// Package protocol implements the stream framing used on the target's RPC socket.
//
// The socket carries a plain stream of concatenated JSON objects: there is no
// length prefix and no delimiter. A frame ends where its top-level object
// ends, so the receiver must parse JSON to find frame boundaries. Decoder does
// exactly that and hands back the raw bytes of one object together with the
// header fields needed to route it.
//
//	{"jsonrpc":"2.0","id":1,"method":"bdev_malloc_create","params":{...}}{"jsonrpc":"2.0","id":1,"result":"Malloc0"}
//	└──────────────────────────── request frame ─────────────────────────┘└──────────── response frame ────────────┘
package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

const Version = "2.0"

// MsgType distinguishes request, response and notification frames.
type MsgType byte

const (
	MsgTypeRequest      MsgType = 0 // Client → target call that expects a response
	MsgTypeResponse     MsgType = 1 // Target → client reply
	MsgTypeNotification MsgType = 2 // Call without id, never answered
)

func (t MsgType) String() string {
	switch t {
	case MsgTypeRequest:
		return "request"
	case MsgTypeResponse:
		return "response"
	case MsgTypeNotification:
		return "notification"
	}
	return fmt.Sprintf("MsgType(%d)", byte(t))
}

// Header holds the routing fields of one frame.
type Header struct {
	Version string
	MsgType MsgType
	ID      uint32 // Zero for notifications
	Method  string // Empty for responses
}

type rawHeader struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
}

// Encode writes one complete frame to w.
// The caller must hold a write lock if multiple goroutines share the same writer,
// otherwise frames from different requests will interleave and corrupt the stream.
func Encode(w io.Writer, body []byte) error {
	if len(body) == 0 {
		return fmt.Errorf("empty frame")
	}
	_, err := w.Write(body)
	return err
}

// Decoder reads frames from a stream. It is not safe for concurrent use; a
// connection has exactly one reader.
type Decoder struct {
	dec *json.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(bufio.NewReader(r))}
}

// Decode reads one complete frame. It validates that the frame is a JSON
// object with a supported version and classifies it by its id/method fields.
func (d *Decoder) Decode() (*Header, []byte, error) {
	var body json.RawMessage
	if err := d.dec.Decode(&body); err != nil {
		return nil, nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, nil, fmt.Errorf("invalid frame: expect a JSON object")
	}

	var raw rawHeader
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, nil, fmt.Errorf("invalid frame header: %v", err)
	}

	if raw.Version != Version {
		return nil, nil, fmt.Errorf("unsupported version: %q", raw.Version)
	}

	header := &Header{Version: raw.Version, Method: raw.Method}
	hasID := len(raw.ID) > 0 && !bytes.Equal(raw.ID, []byte("null"))
	if hasID {
		if err := json.Unmarshal(raw.ID, &header.ID); err != nil {
			return nil, nil, fmt.Errorf("unsupported id %s: %v", string(raw.ID), err)
		}
	}

	switch {
	case raw.Method != "" && hasID:
		header.MsgType = MsgTypeRequest
	case raw.Method != "":
		header.MsgType = MsgTypeNotification
	default:
		header.MsgType = MsgTypeResponse
	}

	return header, trimmed, nil
}
