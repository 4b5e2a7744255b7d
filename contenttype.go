package jsonbody

import (
	"fmt"
	"mime"
	"slices"
	"strings"

	c "github.com/unkn0wn-root/jsonbody/codec"
)

// acceptedMediaTypes normalizes the configured aliases. application/json is
// always first.
func acceptedMediaTypes(aliases []string) ([]string, error) {
	out := []string{c.ContentTypeJSON}
	for _, a := range aliases {
		mt, err := mediaType(a)
		if err != nil {
			return nil, fmt.Errorf("invalid content type alias %q: %w", a, err)
		}
		if !slices.Contains(out, mt) {
			out = append(out, mt)
		}
	}
	return out, nil
}

// mediaType strips parameters and lower-cases the type/subtype.
func mediaType(contentType string) (string, error) {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", err
	}
	if !strings.Contains(mt, "/") {
		return "", fmt.Errorf("missing subtype in %q", contentType)
	}
	return mt, nil
}

// Admits reports whether an entity declared as contentType would pass the
// content-type check. Media-type parameters are ignored.
func (u *Unmarshaller[T]) Admits(contentType string) bool {
	mt, err := mediaType(contentType)
	if err != nil {
		return false
	}
	return slices.Contains(u.accepted, mt)
}
