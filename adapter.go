package jsonbody

import (
	"errors"

	c "github.com/unkn0wn-root/jsonbody/codec"
)

// Marshal encodes v and tags it as application/json. Encoder errors are
// returned unchanged.
func (m *Marshaller[T]) Marshal(v T) (Entity, error) {
	b, err := m.enc.Encode(v)
	if err != nil {
		return Entity{}, err
	}
	return Entity{ContentType: c.ContentTypeJSON, Data: b}, nil
}

// Unmarshal runs content-type check -> emptiness check -> parse -> decode.
// The first failing stage ends the call.
func (u *Unmarshaller[T]) Unmarshal(e Entity) (T, error) {
	var zero T

	if !u.Admits(e.ContentType) {
		return zero, &UnsupportedContentTypeError{Got: e.ContentType, Expected: u.Accepted()}
	}
	if e.Empty() {
		return zero, ErrNoContent
	}

	tree, err := c.UnmarshalTree(u.ser, e.Data)
	if err != nil {
		return zero, &MalformedBodyError{Cause: err}
	}

	v, err := u.dec.Decode(Value{raw: e.Data, tree: tree})
	if err != nil {
		return zero, asValidationError(err)
	}
	return v, nil
}

// asValidationError keeps decoder-produced path errors and turns anything
// else into a root-level construction failure.
func asValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	msg := err.Error()
	return &ValidationError{
		Errors: []PathError{{Path: "", Messages: []Message{{Key: msg}}}},
		Cause:  err,
	}
}
