package jsonbody

import (
	"reflect"
	"sync"
)

type pair[T any] struct {
	m *Marshaller[T]
	u *Unmarshaller[T]
}

// Registry holds one Marshaller/Unmarshaller pair per type. It is filled at
// wiring time and read per request; all methods are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	pairs map[reflect.Type]any
}

func NewRegistry() *Registry {
	return &Registry{pairs: make(map[reflect.Type]any)}
}

// Register installs the pair for T, replacing any previous one.
func Register[T any](r *Registry, m *Marshaller[T], u *Unmarshaller[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pairs == nil {
		r.pairs = make(map[reflect.Type]any)
	}
	r.pairs[reflect.TypeFor[T]()] = pair[T]{m: m, u: u}
}

// Lookup returns the pair registered for T.
func Lookup[T any](r *Registry) (*Marshaller[T], *Unmarshaller[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pairs[reflect.TypeFor[T]()]
	if !ok {
		return nil, nil, false
	}
	tp := p.(pair[T])
	return tp.m, tp.u, true
}

// Use returns the pair registered for T or builds one from opts and
// registers it. opts is ignored when T is already registered.
func Use[T any](r *Registry, opts Options[T]) (*Marshaller[T], *Unmarshaller[T], error) {
	if m, u, ok := Lookup[T](r); ok {
		return m, u, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	typ := reflect.TypeFor[T]()
	if r.pairs == nil {
		r.pairs = make(map[reflect.Type]any)
	}
	// double-check under the write lock
	if p, ok := r.pairs[typ]; ok {
		tp := p.(pair[T])
		return tp.m, tp.u, nil
	}

	m, u, err := New[T](opts)
	if err != nil {
		return nil, nil, err
	}
	r.pairs[typ] = pair[T]{m: m, u: u}
	return m, u, nil
}

// Len reports how many types are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pairs)
}

// Reset drops every registration. Mostly useful for test isolation.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs = make(map[reflect.Type]any)
}
