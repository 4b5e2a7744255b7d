package jsonbody

// Hooks lightweight callbacks for rejected and failed bodies.
// Implementations MUST be cheap and non-blocking; the httpjson layer calls
// them on the request path.
type Hooks interface {
	// A request body was rejected before reaching the handler.
	// contentType is the declared request Content-Type.
	Rejected(kind Kind, contentType string, err error)

	// A response value could not be encoded.
	MarshalFailed(typeName string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Rejected(Kind, string, error) {}
func (NopHooks) MarshalFailed(string, error)  {}
