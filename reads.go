package jsonbody

import (
	"cmp"
	"encoding"
	"encoding/json"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	c "github.com/unkn0wn-root/jsonbody/codec"
)

var (
	jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

type reflectDecoder[T any] struct {
	ser c.Serializer
}

// Reflect returns the default Decoder for T.
//
// It first checks the parsed tree against T's shape, following `json` tags,
// and reports every mismatch grouped by JSON Pointer path. A field is
// required unless it is a pointer, an interface, or tagged omitempty or
// omitzero. Only when the shape matches does ser decode the raw text into a
// T, after which Validate runs if T implements Validator.
func Reflect[T any](ser c.Serializer) Decoder[T] {
	return reflectDecoder[T]{ser: coalesce[c.Serializer](ser, c.StdJSON())}
}

func (d reflectDecoder[T]) Decode(v Value) (T, error) {
	var zero T

	var pe pathErrors
	checkValue(reflect.TypeFor[T](), v.tree, "", &pe)
	if len(pe.list) > 0 {
		return zero, &ValidationError{Errors: pe.list}
	}

	var out T
	if err := d.ser.Unmarshal(v.raw, &out); err != nil {
		// custom UnmarshalJSON/UnmarshalText implementations end up here
		return zero, asValidationError(err)
	}
	if err := validate(&out); err != nil {
		return zero, err
	}
	return out, nil
}

func validate[T any](out *T) error {
	if vd, ok := any(out).(Validator); ok {
		return vd.Validate()
	}
	rv := reflect.ValueOf(*out)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}
	if vd, ok := any(*out).(Validator); ok {
		return vd.Validate()
	}
	return nil
}

// pathErrors accumulates messages grouped by path in first-seen order.
type pathErrors struct {
	list []PathError
	idx  map[string]int
}

func (p *pathErrors) add(path, key string, args ...any) {
	if p.idx == nil {
		p.idx = make(map[string]int)
	}
	m := Message{Key: key, Args: args}
	if i, ok := p.idx[path]; ok {
		p.list[i].Messages = append(p.list[i].Messages, m)
		return
	}
	p.idx[path] = len(p.list)
	p.list = append(p.list, PathError{Path: path, Messages: []Message{m}})
}

// customDecoded reports types whose JSON form is decided by their own
// UnmarshalJSON/UnmarshalText; they are left to the serializer.
func customDecoded(t reflect.Type) bool {
	if t.Kind() == reflect.Interface {
		return false
	}
	pt := reflect.PointerTo(t)
	return pt.Implements(jsonUnmarshalerType) || pt.Implements(textUnmarshalerType)
}

func checkValue(t reflect.Type, node any, path string, pe *pathErrors) {
	if customDecoded(t) {
		return
	}

	switch t.Kind() {
	case reflect.Pointer:
		if node != nil {
			checkValue(t.Elem(), node, path, pe)
		}

	case reflect.Interface:

	case reflect.String:
		if _, ok := node.(string); !ok {
			pe.add(path, KeyExpectedString)
		}

	case reflect.Bool:
		if _, ok := node.(bool); !ok {
			pe.add(path, KeyExpectedBoolean)
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		lit, ok := numberText(node)
		if !ok {
			pe.add(path, KeyExpectedNumber)
			return
		}
		if key := checkNumber(t, lit); key != "" {
			pe.add(path, key)
		}

	case reflect.Slice:
		if node == nil {
			return
		}
		if t.Elem().Kind() == reflect.Uint8 && !customDecoded(t.Elem()) {
			// []byte travels as base64 text
			if _, ok := node.(string); !ok {
				pe.add(path, KeyExpectedString)
			}
			return
		}
		checkArray(t.Elem(), node, path, pe)

	case reflect.Array:
		if node == nil {
			return
		}
		checkArray(t.Elem(), node, path, pe)

	case reflect.Map:
		if node == nil {
			return
		}
		obj, ok := node.(map[string]any)
		if !ok {
			pe.add(path, KeyExpectedObject)
			return
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			checkValue(t.Elem(), obj[k], path+"/"+escapePointer(k), pe)
		}

	case reflect.Struct:
		obj, ok := node.(map[string]any)
		if !ok {
			pe.add(path, KeyExpectedObject)
			return
		}
		for _, f := range fieldsOf(t) {
			child := path + "/" + escapePointer(f.name)
			val, found := lookupKey(obj, f.name)
			if !found {
				if f.required {
					pe.add(child, KeyPathMissing)
				}
				continue
			}
			if f.quoted {
				checkQuoted(f.typ, val, child, pe)
				continue
			}
			checkValue(f.typ, val, child, pe)
		}
	}
}

func checkArray(elem reflect.Type, node any, path string, pe *pathErrors) {
	arr, ok := node.([]any)
	if !ok {
		pe.add(path, KeyExpectedArray)
		return
	}
	for i, e := range arr {
		checkValue(elem, e, path+"/"+strconv.Itoa(i), pe)
	}
}

// numberText returns the literal of a JSON number node. Trees from
// serializers without json.Number support carry float64.
func numberText(node any) (string, bool) {
	switch n := node.(type) {
	case json.Number:
		return n.String(), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case int:
		return strconv.Itoa(n), true
	}
	return "", false
}

// checkNumber parses lit the way the serializer will for a field of type t
// and returns the message key for a literal that does not fit, or "".
func checkNumber(t reflect.Type, lit string) string {
	var err error
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		_, err = strconv.ParseInt(lit, 10, t.Bits())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		_, err = strconv.ParseUint(lit, 10, t.Bits())
	default:
		if _, err = strconv.ParseFloat(lit, t.Bits()); err != nil {
			return KeyExpectedNumber
		}
		return ""
	}
	if err != nil {
		return KeyExpectedInt
	}
	return ""
}

// checkQuoted checks a `json:",string"` field: the value must be a string
// holding a literal of the field's kind. Null leaves the field untouched.
func checkQuoted(t reflect.Type, node any, path string, pe *pathErrors) {
	if node == nil {
		return
	}
	s, ok := node.(string)
	if !ok {
		pe.add(path, KeyExpectedString)
		return
	}
	switch t.Kind() {
	case reflect.String:
		var inner string
		if json.Unmarshal([]byte(s), &inner) != nil {
			pe.add(path, KeyExpectedString)
		}
	case reflect.Bool:
		if s != "true" && s != "false" {
			pe.add(path, KeyExpectedBoolean)
		}
	default:
		if !json.Valid([]byte(s)) {
			pe.add(path, KeyExpectedNumber)
			return
		}
		if key := checkNumber(t, s); key != "" {
			pe.add(path, key)
		}
	}
}

// lookupKey prefers an exact key and falls back to a case-insensitive match,
// like encoding/json.
func lookupKey(obj map[string]any, name string) (any, bool) {
	if v, ok := obj[name]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(s string) string { return pointerEscaper.Replace(s) }

type fieldPlan struct {
	name     string
	typ      reflect.Type
	required bool
	quoted   bool // `json:",string"`
	depth    int  // embedding depth, 0 for fields declared on the type itself
	tagged   bool
}

var fieldPlans sync.Map // reflect.Type -> []fieldPlan

func fieldsOf(t reflect.Type) []fieldPlan {
	if cached, ok := fieldPlans.Load(t); ok {
		return cached.([]fieldPlan)
	}
	plans := dominantFields(collectFields(t, 0, map[reflect.Type]bool{t: true}))
	actual, _ := fieldPlans.LoadOrStore(t, plans)
	return actual.([]fieldPlan)
}

// collectFields lists every JSON-visible field of t, including those
// promoted from embedded structs, in declaration order.
func collectFields(t reflect.Type, depth int, visiting map[reflect.Type]bool) []fieldPlan {
	var out []fieldPlan
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		if sf.Anonymous && name == "" {
			ft, viaPtr := sf.Type, false
			if ft.Kind() == reflect.Pointer {
				ft, viaPtr = ft.Elem(), true
			}
			if ft.Kind() == reflect.Struct && !customDecoded(ft) {
				if visiting[ft] {
					continue
				}
				visiting[ft] = true
				for _, p := range collectFields(ft, depth+1, visiting) {
					if viaPtr {
						p.required = false
					}
					out = append(out, p)
				}
				delete(visiting, ft)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		tagged := name != ""
		if !tagged {
			name = sf.Name
		}

		omit := hasOption(opts, "omitempty") || hasOption(opts, "omitzero")
		kind := sf.Type.Kind()
		out = append(out, fieldPlan{
			name:     name,
			typ:      sf.Type,
			required: !omit && kind != reflect.Pointer && kind != reflect.Interface,
			quoted:   hasOption(opts, "string") && quotable(kind),
			depth:    depth,
			tagged:   tagged,
		})
	}
	return out
}

// dominantFields applies encoding/json's visibility rules: for each name the
// shallowest field wins, a tagged field beats untagged ones at that depth,
// and any remaining tie hides the name entirely.
func dominantFields(all []fieldPlan) []fieldPlan {
	slices.SortStableFunc(all, func(a, b fieldPlan) int { return cmp.Compare(a.depth, b.depth) })

	byName := make(map[string][]fieldPlan, len(all))
	for _, f := range all {
		byName[f.name] = append(byName[f.name], f)
	}

	out := make([]fieldPlan, 0, len(all))
	seen := make(map[string]bool, len(byName))
	for _, f := range all {
		if seen[f.name] {
			continue
		}
		seen[f.name] = true
		if d, ok := dominant(byName[f.name]); ok {
			out = append(out, d)
		}
	}
	return out
}

func dominant(fields []fieldPlan) (fieldPlan, bool) {
	top := fields[0].depth
	var winner fieldPlan
	n, tagged := 0, 0
	for _, f := range fields {
		if f.depth != top {
			break
		}
		n++
		if f.tagged {
			tagged++
			winner = f
		}
	}
	switch {
	case n == 1:
		return fields[0], true
	case tagged == 1:
		return winner, true
	}
	return fieldPlan{}, false
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var o string
		o, opts, _ = strings.Cut(opts, ",")
		if o == want {
			return true
		}
	}
	return false
}

func quotable(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
