package codec

import (
	"bytes"

	gojson "github.com/goccy/go-json"
)

type goJSON struct {
	encodeOptions []gojson.EncodeOptionFunc
	decodeOptions []gojson.DecodeOptionFunc
}

// GoJSON returns a Serializer backed by goccy/go-json. Options are applied
// to every call.
func GoJSON(encodeOptions []gojson.EncodeOptionFunc, decodeOptions []gojson.DecodeOptionFunc) Serializer {
	return &goJSON{
		encodeOptions: encodeOptions,
		decodeOptions: decodeOptions,
	}
}

func (s *goJSON) Marshal(v any) ([]byte, error) {
	return gojson.MarshalWithOption(v, s.encodeOptions...)
}

func (s *goJSON) Unmarshal(data []byte, v any) error {
	return gojson.UnmarshalWithOption(data, v, s.decodeOptions...)
}

func (s *goJSON) UnmarshalNumbers(data []byte, v any) error {
	if !gojson.Valid(data) {
		if err := gojson.UnmarshalWithOption(data, v, s.decodeOptions...); err != nil {
			return err
		}
		return errInvalidJSON
	}
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.DecodeWithOption(v, s.decodeOptions...)
}
