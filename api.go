package jsonbody

import (
	"fmt"

	c "github.com/unkn0wn-root/jsonbody/codec"
)

// Entity is an HTTP body: a byte payload tagged with a content type.
type Entity struct {
	ContentType string
	Data        []byte
}

// Empty reports whether the entity carries no bytes.
func (e Entity) Empty() bool { return len(e.Data) == 0 }

// Encoder turns a T into JSON text. codec.JSON[T] satisfies it.
type Encoder[T any] interface {
	Encode(T) ([]byte, error)
}

// Decoder turns a parsed JSON Value into a T.
//
// Returning a *ValidationError keeps its per-path errors. Any other error is
// treated as a construction failure and its message is surfaced verbatim.
type Decoder[T any] interface {
	Decode(Value) (T, error)
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc[T any] func(T) ([]byte, error)

func (f EncoderFunc[T]) Encode(v T) ([]byte, error) { return f(v) }

// DecoderFunc adapts a function to Decoder.
type DecoderFunc[T any] func(Value) (T, error)

func (f DecoderFunc[T]) Decode(v Value) (T, error) { return f(v) }

// CodecDecoder adapts a byte-level codec, such as codec.ProtoJSON, to
// Decoder. Its errors are construction failures at the document root.
func CodecDecoder[T any](cd c.Codec[T]) Decoder[T] {
	return DecoderFunc[T](func(v Value) (T, error) { return cd.Decode(v.raw) })
}

// Validator is checked on the decoded value by the Reflect decoder. Use
// Require to express preconditions.
type Validator interface {
	Validate() error
}

// Options configure a Marshaller/Unmarshaller pair.
// Every field is optional.
type Options[T any] struct {
	Encoder    Encoder[T]   // nil => codec.JSON[T]{S: Serializer}
	Decoder    Decoder[T]   // nil => Reflect[T](Serializer)
	Serializer c.Serializer // parser backend; nil => codec.StdJSON()

	// ContentTypes lists extra media types accepted on unmarshal besides
	// application/json, e.g. "application/vnd.api+json". Empty => exact match only.
	ContentTypes []string
}

// Marshaller turns a T into an application/json Entity.
type Marshaller[T any] struct {
	enc Encoder[T]
}

// Unmarshaller turns an Entity into a T, or fails with one of the four
// adapter error kinds.
type Unmarshaller[T any] struct {
	dec      Decoder[T]
	ser      c.Serializer
	accepted []string
}

// New builds the Marshaller/Unmarshaller pair for T. Both are immutable and
// safe for concurrent use.
func New[T any](opts Options[T]) (*Marshaller[T], *Unmarshaller[T], error) {
	ser := coalesce[c.Serializer](opts.Serializer, c.StdJSON())

	enc := opts.Encoder
	if enc == nil {
		enc = c.JSON[T]{S: ser}
	}
	dec := opts.Decoder
	if dec == nil {
		dec = Reflect[T](ser)
	}

	accepted, err := acceptedMediaTypes(opts.ContentTypes)
	if err != nil {
		return nil, nil, err
	}

	return &Marshaller[T]{enc: enc}, &Unmarshaller[T]{dec: dec, ser: ser, accepted: accepted}, nil
}

// Must is like New but panics on error.
func Must[T any](opts Options[T]) (*Marshaller[T], *Unmarshaller[T]) {
	m, u, err := New[T](opts)
	if err != nil {
		panic(fmt.Sprintf("jsonbody: %v", err))
	}
	return m, u
}

// ContentType is the media type every Marshaller produces.
func (m *Marshaller[T]) ContentType() string { return c.ContentTypeJSON }

// Accepted returns the media types the Unmarshaller admits.
func (u *Unmarshaller[T]) Accepted() []string {
	out := make([]string, len(u.accepted))
	copy(out, u.accepted)
	return out
}
