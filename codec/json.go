package codec

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errInvalidJSON = errors.New("invalid JSON")

// JSON is a Codec that serializes values through a Serializer.
// The zero value is ready to use and falls back to encoding/json.
type JSON[V any] struct {
	S Serializer
}

var _ Codec[struct{}] = JSON[struct{}]{}

func (c JSON[V]) serializer() Serializer {
	if c.S == nil {
		return stdJSON{}
	}
	return c.S
}

func (JSON[V]) ContentType() string { return ContentTypeJSON }

func (c JSON[V]) Encode(v V) ([]byte, error) { return c.serializer().Marshal(v) }
func (c JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := c.serializer().Unmarshal(b, &v)
	return v, err
}

type stdJSON struct{}

// StdJSON returns a Serializer backed by encoding/json.
func StdJSON() Serializer { return stdJSON{} }

func (stdJSON) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (stdJSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (stdJSON) UnmarshalNumbers(data []byte, v any) error {
	// Valid rejects trailing data the stream decoder would leave unread
	if !json.Valid(data) {
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		return errInvalidJSON
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
