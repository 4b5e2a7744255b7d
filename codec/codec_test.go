package codec

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type user struct {
	ID    int64     `json:"id"`
	Name  string    `json:"name"`
	Tags  []string  `json:"tags,omitempty"`
	Since time.Time `json:"since"`
}

func sample() user {
	return user{
		ID:    42,
		Name:  "ada",
		Tags:  []string{"a", "b"},
		Since: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
	}
}

func roundTrip[V any](t *testing.T, c Codec[V], v V) V {
	t.Helper()
	b, err := c.Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return got
}

// ==============================
// JSON backends
// ==============================

func TestJSONBackendsAgree(t *testing.T) {
	backends := []struct {
		name string
		s    Serializer
	}{
		{"zero", nil},
		{"std", StdJSON()},
		{"go-json", GoJSON(nil, nil)},
		{FastName(), Fast()},
	}
	want, err := JSON[user]{}.Encode(sample())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, be := range backends {
		t.Run(be.name, func(t *testing.T) {
			c := JSON[user]{S: be.s}
			b, err := c.Encode(sample())
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(b, want) {
				t.Fatalf("encoded %s, want %s", b, want)
			}
			if diff := cmp.Diff(sample(), roundTrip[user](t, c, sample())); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSONDecodeError(t *testing.T) {
	for _, s := range []Serializer{StdJSON(), GoJSON(nil, nil), Fast()} {
		if _, err := (JSON[user]{S: s}).Decode([]byte(`{"id":`)); err == nil {
			t.Fatalf("%T: Decode of truncated input succeeded", s)
		}
	}
}

func TestUnmarshalTreeKeepsNumberLiterals(t *testing.T) {
	for _, s := range []Serializer{StdJSON(), GoJSON(nil, nil), Fast()} {
		tree, err := UnmarshalTree(s, []byte(`{"max": 18446744073709551615, "f": 1.0, "list": [1e2]}`))
		if err != nil {
			t.Fatalf("%T: UnmarshalTree: %v", s, err)
		}
		want := map[string]any{
			"max":  json.Number("18446744073709551615"),
			"f":    json.Number("1.0"),
			"list": []any{json.Number("1e2")},
		}
		if diff := cmp.Diff(want, tree); diff != "" {
			t.Fatalf("%T: tree mismatch (-want +got):\n%s", s, diff)
		}
	}
}

func TestUnmarshalTreeRejectsTrailingData(t *testing.T) {
	for _, s := range []Serializer{StdJSON(), GoJSON(nil, nil)} {
		if _, err := UnmarshalTree(s, []byte(`{} x`)); err == nil {
			t.Fatalf("%T: trailing data accepted", s)
		}
		if _, err := UnmarshalTree(s, []byte(`{"a":`)); err == nil {
			t.Fatalf("%T: truncated input accepted", s)
		}
	}
}

// plainSerializer hides the number-preserving path.
type plainSerializer struct{ Serializer }

func TestUnmarshalTreeFallsBackToFloat(t *testing.T) {
	tree, err := UnmarshalTree(plainSerializer{StdJSON()}, []byte(`[2]`))
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}
	if diff := cmp.Diff([]any{float64(2)}, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestContentTypes(t *testing.T) {
	cases := []struct {
		got, want string
	}{
		{JSON[user]{}.ContentType(), "application/json"},
		{MustCBOR[user](false).ContentType(), "application/cbor"},
		{Msgpack[user]{}.ContentType(), "application/msgpack"},
		{NewProtobuf(newStruct).ContentType(), "application/x-protobuf"},
		{NewProtoJSON(newStruct).ContentType(), "application/json"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("content type = %q, want %q", tc.got, tc.want)
		}
	}
}

// ==============================
// CBOR
// ==============================

func TestCBORRoundTrip(t *testing.T) {
	for _, det := range []bool{false, true} {
		c, err := NewCBOR[user](det)
		if err != nil {
			t.Fatalf("NewCBOR(%v): %v", det, err)
		}
		if diff := cmp.Diff(sample(), roundTrip[user](t, c, sample())); diff != "" {
			t.Fatalf("deterministic=%v mismatch (-want +got):\n%s", det, diff)
		}
	}
}

func TestCBORDeterministicIsStable(t *testing.T) {
	c := MustCBOR[map[string]int](true)
	m := map[string]int{"z": 1, "a": 2, "m": 3, "b": 4}
	first, err := c.Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for range 20 {
		b, _ := c.Encode(m)
		if !bytes.Equal(b, first) {
			t.Fatal("deterministic encoding changed between calls")
		}
	}
}

func TestCBORUsesJSONFieldNames(t *testing.T) {
	b, err := MustCBOR[user](true).Encode(sample())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	generic, err := MustCBOR[map[string]any](false).Decode(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if generic["name"] != "ada" {
		t.Fatalf("fields = %v, want json names", generic)
	}
	if generic["since"] != "2024-05-06T07:08:09Z" {
		t.Fatalf("since = %v, want RFC3339 text", generic["since"])
	}
}

// ==============================
// Msgpack
// ==============================

func TestMsgpackRoundTrip(t *testing.T) {
	for _, jsonTags := range []bool{false, true} {
		c := Msgpack[user]{UseJSONTags: jsonTags}
		if diff := cmp.Diff(sample(), roundTrip[user](t, c, sample())); diff != "" {
			t.Fatalf("UseJSONTags=%v mismatch (-want +got):\n%s", jsonTags, diff)
		}
	}
}

func TestMsgpackFieldNames(t *testing.T) {
	cases := []struct {
		jsonTags bool
		key      string
	}{
		{false, "Name"},
		{true, "name"},
	}
	for _, tc := range cases {
		b, err := Msgpack[user]{UseJSONTags: tc.jsonTags}.Encode(sample())
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		var generic map[string]any
		if err := msgpack.Unmarshal(b, &generic); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if generic[tc.key] != "ada" {
			t.Fatalf("UseJSONTags=%v: fields = %v, want key %q", tc.jsonTags, generic, tc.key)
		}
	}
}

// ==============================
// Protobuf
// ==============================

func newStruct() *structpb.Struct { return &structpb.Struct{} }

func TestProtobufRoundTrip(t *testing.T) {
	in, err := structpb.NewStruct(map[string]any{"name": "ada", "tags": []any{"a", "b"}, "n": 3})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	for _, c := range []Codec[*structpb.Struct]{NewProtobuf(newStruct), NewProtoJSON(newStruct)} {
		got := roundTrip(t, c, in)
		if !proto.Equal(in, got) {
			t.Fatalf("%T: round trip = %v, want %v", c, got, in)
		}
	}
}

func TestProtobufDecodeError(t *testing.T) {
	if _, err := NewProtobuf(newStruct).Decode([]byte{0xff, 0xff}); err == nil {
		t.Fatal("Decode of garbage succeeded")
	}
	if _, err := NewProtoJSON(newStruct).Decode([]byte(`[1]`)); err == nil {
		t.Fatal("Decode of an array into a Struct succeeded")
	}
}

func TestProtoJSONUsesCanonicalMapping(t *testing.T) {
	c := NewProtoJSON(func() *wrapperspb.Int64Value { return &wrapperspb.Int64Value{} })
	b, err := c.Encode(wrapperspb.Int64(1 << 60))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var got string
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("int64 wrapper should encode as a JSON string, got %s: %v", b, err)
	}
	if got != "1152921504606846976" {
		t.Fatalf("encoded = %q", got)
	}
}
