package jsonbody

// Value is a parsed JSON document: the raw text plus the generic tree the
// serializer produced (map[string]any, []any, string, json.Number, bool,
// nil). Serializers without number support yield float64 instead of
// json.Number.
type Value struct {
	raw  []byte
	tree any
}

// NewValue builds a Value from already-parsed parts. Mostly useful for
// testing decoders in isolation.
func NewValue(raw []byte, tree any) Value { return Value{raw: raw, tree: tree} }

// Raw returns the JSON text. Callers must not modify it.
func (v Value) Raw() []byte { return v.raw }

// Interface returns the parsed tree.
func (v Value) Interface() any { return v.tree }

// Lookup walks object keys from the root. ok is false when any step is
// missing or is not an object.
func (v Value) Lookup(keys ...string) (any, bool) {
	cur := v.tree
	for _, k := range keys {
		obj, isObj := cur.(map[string]any)
		if !isObj {
			return nil, false
		}
		next, found := obj[k]
		if !found {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
