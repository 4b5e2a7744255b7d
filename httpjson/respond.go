package httpjson

import (
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/unkn0wn-root/jsonbody"
)

// Representation is an alternate response encoding for T, such as
// codec.CBOR[T], codec.Msgpack[T] or codec.Protobuf[T].
type Representation[T any] interface {
	ContentType() string
	Encode(T) ([]byte, error)
}

// Responder writes T values as JSON, or as one of the alternates when the
// client's Accept header prefers it.
type Responder[T any] struct {
	json *jsonbody.Marshaller[T]
	alts []Representation[T]
}

// NewResponder builds a Responder. JSON is always offered first.
func NewResponder[T any](m *jsonbody.Marshaller[T], alternates ...Representation[T]) *Responder[T] {
	return &Responder[T]{json: m, alts: alternates}
}

// Offers lists the media types the Responder can produce, JSON first.
func (rs *Responder[T]) Offers() []string {
	out := make([]string, 0, 1+len(rs.alts))
	out = append(out, rs.json.ContentType())
	for _, a := range rs.alts {
		out = append(out, a.ContentType())
	}
	return out
}

// Negotiate picks the offer the Accept header ranks highest. An empty header,
// or one without a single parseable range, selects JSON. ok is false when
// nothing offered is acceptable.
func (rs *Responder[T]) Negotiate(accept string) (contentType string, ok bool) {
	offers := rs.Offers()
	if strings.TrimSpace(accept) == "" {
		return offers[0], true
	}

	ranges := parseAccept(accept)
	if len(ranges) == 0 {
		// nothing parseable is treated like a missing header
		return offers[0], true
	}
	best, bestQ := "", 0.0
	for _, o := range offers {
		if q := qualityFor(o, ranges); q > bestQ {
			best, bestQ = o, q
		}
	}
	return best, bestQ > 0
}

// Encode renders v in the given representation.
func (rs *Responder[T]) Encode(contentType string, v T) (jsonbody.Entity, error) {
	for _, a := range rs.alts {
		if a.ContentType() == contentType {
			b, err := a.Encode(v)
			if err != nil {
				return jsonbody.Entity{}, err
			}
			return jsonbody.Entity{ContentType: contentType, Data: b}, nil
		}
	}
	return rs.json.Marshal(v)
}

// Write negotiates, encodes and writes v with the given status. Nothing is
// written when it returns an error: a *NotAcceptableError, or the encoder's
// error.
func (rs *Responder[T]) Write(w http.ResponseWriter, r *http.Request, status int, v T) error {
	ct, ok := rs.Negotiate(r.Header.Get("Accept"))
	if !ok {
		return &NotAcceptableError{Offered: rs.Offers()}
	}
	e, err := rs.Encode(ct, v)
	if err != nil {
		return err
	}
	writeEntity(w, status, e)
	return nil
}

func writeEntity(w http.ResponseWriter, status int, e jsonbody.Entity) {
	h := w.Header()
	h.Set("Content-Type", e.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(e.Data)))
	h.Add("Vary", "Accept")
	w.WriteHeader(status)
	_, _ = w.Write(e.Data)
}

type mediaRange struct {
	typ, sub string
	q        float64
}

func parseAccept(accept string) []mediaRange {
	var out []mediaRange
	for _, part := range strings.Split(accept, ",") {
		mt, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		typ, sub, found := strings.Cut(mt, "/")
		if !found {
			// some clients send a bare "*"
			if mt != "*" {
				continue
			}
			typ, sub = "*", "*"
		}
		q := 1.0
		if qs, ok := params["q"]; ok {
			if f, err := strconv.ParseFloat(qs, 64); err == nil && f >= 0 && f <= 1 {
				q = f
			}
		}
		out = append(out, mediaRange{typ: typ, sub: sub, q: q})
	}
	return out
}

// qualityFor returns the q of the most specific range matching offer.
func qualityFor(offer string, ranges []mediaRange) float64 {
	typ, sub, _ := strings.Cut(offer, "/")
	q, specificity := 0.0, -1
	for _, r := range ranges {
		var s int
		switch {
		case r.typ == typ && r.sub == sub:
			s = 2
		case r.typ == typ && r.sub == "*":
			s = 1
		case r.typ == "*" && r.sub == "*":
			s = 0
		default:
			continue
		}
		if s > specificity {
			q, specificity = r.q, s
		}
	}
	return q
}
