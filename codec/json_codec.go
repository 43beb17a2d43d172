package codec

import (
	"encoding/json"
)

// JSONCodec writes compact JSON, the format every target accepts.
type JSONCodec struct{}

func (c *JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c *JSONCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (c *JSONCodec) Type() CodecType {
	return CodecTypeJSON
}

// IndentJSONCodec writes tab-indented JSON. Targets parse it the same way; it
// only makes socket captures readable.
type IndentJSONCodec struct{}

func (c *IndentJSONCodec) Encode(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "\t")
}

func (c *IndentJSONCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (c *IndentJSONCodec) Type() CodecType {
	return CodecTypeJSONIndent
}
