package httpjson

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGzip(t *testing.T) {
	wrap, err := Gzip(64)
	if err != nil {
		t.Fatalf("Gzip: %v", err)
	}
	long := strings.Repeat("a", 200)
	h := wrap(greetHandler(t, greet, Options{}))

	cases := []struct {
		name        string
		acceptGzip  bool
		body        string
		wantEncoded bool
	}{
		{"large and accepted", true, `{"name":"` + long + `"}`, true},
		{"small", true, `{"name":"x"}`, false},
		{"not accepted", false, `{"name":"` + long + `"}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			r.Header.Set("Content-Type", "application/json")
			if tc.acceptGzip {
				r.Header.Set("Accept-Encoding", "gzip")
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d (body %q)", w.Code, w.Body)
			}
			encoded := w.Header().Get("Content-Encoding") == "gzip"
			if encoded != tc.wantEncoded {
				t.Fatalf("gzip encoded = %v, want %v", encoded, tc.wantEncoded)
			}

			var body io.Reader = w.Body
			if encoded {
				zr, err := gzip.NewReader(w.Body)
				if err != nil {
					t.Fatalf("gzip.NewReader: %v", err)
				}
				body = zr
			}
			b, err := io.ReadAll(body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if !strings.HasPrefix(string(b), `{"message":"hello `) {
				t.Fatalf("body = %s", b)
			}
		})
	}
}
