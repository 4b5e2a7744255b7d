package httpjson

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/unkn0wn-root/jsonbody"
)

func TestReadEntity(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	r.Header.Set("Content-Type", "application/json")

	e, err := ReadEntity(httptest.NewRecorder(), r, 0)
	if err != nil {
		t.Fatalf("ReadEntity: %v", err)
	}
	if e.ContentType != "application/json" || string(e.Data) != `{"a":1}` {
		t.Fatalf("entity = %+v", e)
	}
}

func TestReadEntityWithoutBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Content-Type", "application/json")

	e, err := ReadEntity(httptest.NewRecorder(), r, 0)
	if err != nil {
		t.Fatalf("ReadEntity: %v", err)
	}
	if !e.Empty() || e.ContentType != "application/json" {
		t.Fatalf("entity = %+v", e)
	}
}

func TestReadEntityLimit(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("1", 17)))

	_, err := ReadEntity(httptest.NewRecorder(), r, 16)

	if !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("err = %v, want ErrBodyTooLarge", err)
	}
}

func TestBindEmptyBodyIsNoContent(t *testing.T) {
	_, u := jsonbody.Must(jsonbody.Options[greeting]{})
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Content-Type", "application/json")

	_, err := Bind(httptest.NewRecorder(), r, u, 0)

	if !errors.Is(err, jsonbody.ErrNoContent) {
		t.Fatalf("err = %v, want ErrNoContent", err)
	}
}

func TestBindAcceptsAliases(t *testing.T) {
	_, u := jsonbody.Must(jsonbody.Options[greeting]{ContentTypes: []string{"application/vnd.api+json"}})
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ada"}`))
	r.Header.Set("Content-Type", "application/vnd.api+json; charset=utf-8")

	g, err := Bind(httptest.NewRecorder(), r, u, 0)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if g.Name != "ada" {
		t.Fatalf("bound %+v", g)
	}
}
