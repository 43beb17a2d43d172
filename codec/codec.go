package codec

import "github.com/pkg/errors"

type CodecType byte

const (
	CodecTypeJSON       CodecType = 0
	CodecTypeJSONIndent CodecType = 1
)

type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	Type() CodecType // 0=JSON, 1=JSONIndent
}

func GetCodec(codecType CodecType) Codec {
	if codecType == CodecTypeJSONIndent {
		return &IndentJSONCodec{}
	}

	return &JSONCodec{}
}

// ParseCodecType maps a config name to a codec type. An empty name means JSON.
func ParseCodecType(name string) (CodecType, error) {
	switch name {
	case "", "json":
		return CodecTypeJSON, nil
	case "json-indent", "indent":
		return CodecTypeJSONIndent, nil
	}
	return CodecTypeJSON, errors.Errorf("unknown codec %q", name)
}
