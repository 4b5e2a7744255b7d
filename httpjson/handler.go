package httpjson

import (
	"context"
	"fmt"
	"net/http"
	"reflect"

	"github.com/unkn0wn-root/jsonbody"
)

// Options tune a typed handler. Every field is optional.
type Options struct {
	MaxBodyBytes int64           // 0 => DefaultMaxBodyBytes
	Status       int             // success status; 0 => 200
	Logger       jsonbody.Logger // if nil, NopLogger is used
	Hooks        jsonbody.Hooks  // if nil, NopHooks is used
}

// HandlerFunc is the typed business logic behind a handler. ctx is the
// request context.
type HandlerFunc[In, Out any] func(ctx context.Context, in In) (Out, error)

type handler[In, Out any] struct {
	in     *jsonbody.Unmarshaller[In]
	out    *Responder[Out]
	fn     HandlerFunc[In, Out]
	limit  int64
	status int
	log    jsonbody.Logger
	hooks  jsonbody.Hooks
	name   string
}

// Handle builds an http.Handler that binds the request body to In, runs fn
// and writes its Out through out.
func Handle[In, Out any](in *jsonbody.Unmarshaller[In], out *Responder[Out], fn HandlerFunc[In, Out], opts Options) http.Handler {
	return &handler[In, Out]{
		in:     in,
		out:    out,
		fn:     fn,
		limit:  coalesce[int64](opts.MaxBodyBytes, DefaultMaxBodyBytes),
		status: coalesce[int](opts.Status, http.StatusOK),
		log:    coalesce[jsonbody.Logger](opts.Logger, jsonbody.NopLogger{}),
		hooks:  coalesce[jsonbody.Hooks](opts.Hooks, jsonbody.NopHooks{}),
		name:   reflect.TypeFor[Out]().String(),
	}
}

// HandleFrom is Handle with both sides looked up in reg. It fails when In
// or Out was never registered.
func HandleFrom[In, Out any](reg *jsonbody.Registry, fn HandlerFunc[In, Out], opts Options, alternates ...Representation[Out]) (http.Handler, error) {
	_, in, ok := jsonbody.Lookup[In](reg)
	if !ok {
		return nil, fmt.Errorf("httpjson: no unmarshaller registered for %s", reflect.TypeFor[In]())
	}
	m, _, ok := jsonbody.Lookup[Out](reg)
	if !ok {
		return nil, fmt.Errorf("httpjson: no marshaller registered for %s", reflect.TypeFor[Out]())
	}
	return Handle(in, NewResponder(m, alternates...), fn, opts), nil
}

func (h *handler[In, Out]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v, err := Bind(w, r, h.in, h.limit)
	if err != nil {
		h.reject(w, r, err)
		return
	}

	res, err := h.fn(r.Context(), v)
	if err != nil {
		status := WriteError(w, err)
		if status >= http.StatusInternalServerError {
			h.log.Error("handler failed", jsonbody.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"err":    err,
			})
		}
		return
	}

	if err := h.out.Write(w, r, h.status, res); err != nil {
		if _, ok := err.(*NotAcceptableError); !ok {
			h.hooks.MarshalFailed(h.name, err)
			h.log.Error("response encode failed", jsonbody.Fields{
				"type": h.name,
				"path": r.URL.Path,
				"err":  err,
			})
			err = fmt.Errorf("encode %s: %w", h.name, err)
		}
		WriteError(w, err)
	}
}

func (h *handler[In, Out]) reject(w http.ResponseWriter, r *http.Request, err error) {
	ct := r.Header.Get("Content-Type")
	if k, ok := jsonbody.KindOf(err); ok {
		h.hooks.Rejected(k, ct, err)
	}
	status := WriteError(w, err)
	h.log.Debug("request body rejected", jsonbody.Fields{
		"method":       r.Method,
		"path":         r.URL.Path,
		"content_type": ct,
		"status":       status,
		"err":          err,
	})
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
