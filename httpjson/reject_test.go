package httpjson

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unkn0wn-root/jsonbody"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"content type", &jsonbody.UnsupportedContentTypeError{Got: "text/plain"}, http.StatusUnsupportedMediaType},
		{"no content", jsonbody.ErrNoContent, http.StatusBadRequest},
		{"malformed", &jsonbody.MalformedBodyError{}, http.StatusBadRequest},
		{"validation", &jsonbody.ValidationError{}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("bind: %w", &jsonbody.ValidationError{}), http.StatusBadRequest},
		{"too large", fmt.Errorf("%w: limit is 1 bytes", ErrBodyTooLarge), http.StatusRequestEntityTooLarge},
		{"not acceptable", &NotAcceptableError{}, http.StatusNotAcceptable},
		{"status coder", teapotError{}, http.StatusTeapot},
		{"unknown", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusOf(tc.err); got != tc.want {
			t.Errorf("%s: StatusOf = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestBodyOfHidesInternalErrors(t *testing.T) {
	b := BodyOf(errors.New("dial tcp 10.0.0.3:5432: connection refused"))
	if b.Error != "Internal Server Error" || b.Kind != "" {
		t.Fatalf("BodyOf = %+v", b)
	}
}

func TestBodyOfMalformedKeepsCause(t *testing.T) {
	b := BodyOf(&jsonbody.MalformedBodyError{Cause: io.ErrUnexpectedEOF})
	if b.Error != jsonbody.MalformedBodyMessage || b.Cause != io.ErrUnexpectedEOF.Error() {
		t.Fatalf("BodyOf = %+v", b)
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	status := WriteError(w, jsonbody.ErrNoContent)

	if status != http.StatusBadRequest || w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d / %d, want 400", status, w.Code)
	}
	want := `{"error":"request entity expected but not supplied","kind":"no_content"}`
	if got := w.Body.String(); got != want {
		t.Fatalf("body = %s, want %s", got, want)
	}
}
