package codec

// Codec encodes/decodes values V to []byte for an HTTP entity body.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Serializer is the untyped JSON backend a JSON codec and the body adapter
// delegate to. Implementations must be safe for concurrent use.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// NumberUnmarshaler is implemented by Serializers that can decode into an
// interface value while keeping number literals as json.Number.
type NumberUnmarshaler interface {
	UnmarshalNumbers(data []byte, v any) error
}

// UnmarshalTree parses data into a generic tree. Numbers come back as
// json.Number when s implements NumberUnmarshaler and as float64 otherwise.
func UnmarshalTree(s Serializer, data []byte) (any, error) {
	var tree any
	if nu, ok := s.(NumberUnmarshaler); ok {
		err := nu.UnmarshalNumbers(data, &tree)
		return tree, err
	}
	err := s.Unmarshal(data, &tree)
	return tree, err
}

const (
	ContentTypeJSON     = "application/json"
	ContentTypeCBOR     = "application/cbor"
	ContentTypeMsgpack  = "application/msgpack"
	ContentTypeProtobuf = "application/x-protobuf"
)
