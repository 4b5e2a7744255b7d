// Package sloghook reports jsonbody rejections through log/slog.
package sloghook

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/jsonbody"
)

type Options struct {
	// Sampling to avoid floods from misbehaving clients; 0/1 = log all.
	RejectEvery uint64
	// Level for rejections. Defaults to Info; marshal failures are always Error.
	RejectLevel slog.Level
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	rejectCtr atomic.Uint64
}

var _ jsonbody.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Rejected(kind jsonbody.Kind, contentType string, err error) {
	if h.l == nil || !sample(h.opts.RejectEvery, &h.rejectCtr) {
		return
	}
	h.l.Log(context.Background(), h.opts.RejectLevel, "jsonbody.rejected",
		"kind", kind.String(),
		"content_type", contentType,
		"err", err)
}

func (h *Hooks) MarshalFailed(typeName string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("jsonbody.marshal_failed",
		"type", typeName,
		"err", err)
}
