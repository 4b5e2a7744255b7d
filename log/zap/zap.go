// Package zap adapts a *zap.Logger to jsonbody.Logger.
package zap

import (
	"sort"

	"github.com/unkn0wn-root/jsonbody"
	"go.uber.org/zap"
)

var _ jsonbody.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

// New wraps l, naming it "jsonbody".
func New(l *zap.Logger) ZapLogger { return ZapLogger{L: l.Named("jsonbody")} }

func (z ZapLogger) Debug(msg string, f jsonbody.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f jsonbody.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f jsonbody.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f jsonbody.Fields) { z.L.Error(msg, zf(f)...) }

// zf converts fields in key order so log lines are stable.
func zf(f jsonbody.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
