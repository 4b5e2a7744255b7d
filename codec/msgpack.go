package codec

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// Msgpack is a Codec that serializes values using vmihailenco/msgpack/v5.
// The zero value is ready to use.
//
// Struct tags differ from JSON: by default msgpack reads `msgpack:"name"`
// and falls back to the Go field name. Set UseJSONTags when responses must
// mirror the JSON field names.
type Msgpack[V any] struct {
	UseJSONTags bool
}

var _ Codec[struct{}] = Msgpack[struct{}]{}

func (Msgpack[V]) ContentType() string { return ContentTypeMsgpack }

func (c Msgpack[V]) Encode(v V) ([]byte, error) {
	if !c.UseJSONTags {
		return msgpack.Marshal(v)
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	if !c.UseJSONTags {
		err := msgpack.Unmarshal(b, &v)
		return v, err
	}
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	err := dec.Decode(&v)
	return v, err
}
