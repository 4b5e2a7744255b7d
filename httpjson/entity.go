// Package httpjson plugs jsonbody Marshallers and Unmarshallers into net/http:
// reading request entities, binding them to typed values, negotiating the
// response representation and mapping rejections to HTTP statuses.
package httpjson

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/unkn0wn-root/jsonbody"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 4 << 20

// ErrBodyTooLarge is returned when a request body exceeds the limit.
var ErrBodyTooLarge = errors.New("request body too large")

// ReadEntity buffers the request body into an Entity. limit <= 0 means
// DefaultMaxBodyBytes. A body over the limit fails with ErrBodyTooLarge
// without being handed to any parser.
func ReadEntity(w http.ResponseWriter, r *http.Request, limit int64) (jsonbody.Entity, error) {
	e := jsonbody.Entity{ContentType: r.Header.Get("Content-Type")}
	if r.Body == nil || r.Body == http.NoBody {
		return e, nil
	}
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return jsonbody.Entity{}, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, mbe.Limit)
		}
		return jsonbody.Entity{}, fmt.Errorf("read body: %w", err)
	}
	e.Data = data
	return e, nil
}

// Bind reads and unmarshals the request body into a T. The content type is
// checked before the body is read, so a mistyped request is rejected with
// UnsupportedContentType even when it is oversized.
func Bind[T any](w http.ResponseWriter, r *http.Request, u *jsonbody.Unmarshaller[T], limit int64) (T, error) {
	ct := r.Header.Get("Content-Type")
	if !u.Admits(ct) {
		return u.Unmarshal(jsonbody.Entity{ContentType: ct})
	}

	e, err := ReadEntity(w, r, limit)
	if err != nil {
		var zero T
		return zero, err
	}
	return u.Unmarshal(e)
}
