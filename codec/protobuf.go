package codec

import (
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Protobuf is a Codec for generated protobuf messages. It backs the
// application/x-protobuf response representation.
type Protobuf[T proto.Message] struct {
	new func() T // constructor for a concrete message (e.g., func() *mypb.User { return &mypb.User{} })
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (Protobuf[T]) ContentType() string { return ContentTypeProtobuf }

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}

// ProtoJSON is a Codec for protobuf messages using the canonical proto3 JSON
// mapping. It is the Encoder of a message type's jsonbody pair; wrap it with
// jsonbody.CodecDecoder for the Decoder. Unknown fields are discarded.
type ProtoJSON[T proto.Message] struct {
	new func() T
	mo  protojson.MarshalOptions
	uo  protojson.UnmarshalOptions
}

func NewProtoJSON[T proto.Message](ctor func() T) ProtoJSON[T] {
	return ProtoJSON[T]{
		new: ctor,
		uo:  protojson.UnmarshalOptions{DiscardUnknown: true},
	}
}

func (ProtoJSON[T]) ContentType() string { return ContentTypeJSON }

func (c ProtoJSON[T]) Encode(v T) ([]byte, error) {
	return c.mo.Marshal(v)
}

func (c ProtoJSON[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := c.uo.Unmarshal(b, m)
	return m, err
}
