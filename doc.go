// Package jsonbody converts between JSON HTTP bodies and typed Go values.
//
// New builds a Marshaller/Unmarshaller pair for a type T from an explicit
// Encoder and Decoder (defaults: codec.JSON and Reflect over a pluggable
// serializer). Marshal always yields an application/json Entity. Unmarshal
// is a linear pipeline that stops at the first failing stage:
//
//	content-type check -> emptiness check -> parse -> decode
//
// and reports exactly one of four errors:
//
//	*UnsupportedContentTypeError  content type is not application/json (or a configured alias)
//	ErrNoContent                  zero-byte body
//	*MalformedBodyError           not JSON text ("Invalid JSON body", cause attached)
//	*ValidationError              JSON that cannot become a T, grouped by JSON Pointer path
//
// Usage:
//
//	type Foo struct {
//		Bar string `json:"bar"`
//	}
//
//	func (f Foo) Validate() error {
//		return jsonbody.Require(f.Bar == "bar", "bar must be 'bar'!")
//	}
//
//	m, u := jsonbody.Must(jsonbody.Options[Foo]{})
//	e, _ := m.Marshal(Foo{Bar: "bar"})
//	foo, err := u.Unmarshal(e)
//
// Marshallers and Unmarshallers hold no mutable state and are safe for
// concurrent use. See package httpjson for the net/http side.
package jsonbody
