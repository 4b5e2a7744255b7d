package slog

import (
	"bytes"
	stdslog "log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/jsonbody"
)

func newLogger(level stdslog.Level) (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := stdslog.NewTextHandler(&buf, &stdslog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a stdslog.Attr) stdslog.Attr {
			if a.Key == stdslog.TimeKey {
				return stdslog.Attr{}
			}
			return a
		},
	})
	return Logger{L: stdslog.New(h)}, &buf
}

func TestSlogLogger(t *testing.T) {
	l, buf := newLogger(stdslog.LevelDebug)

	l.Info("request body rejected", jsonbody.Fields{"status": 400, "kind": "no_content"})

	want := `level=INFO msg="request body rejected" kind=no_content status=400`
	if got := strings.TrimSpace(buf.String()); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSlogLoggerSkipsDisabledLevels(t *testing.T) {
	l, buf := newLogger(stdslog.LevelWarn)

	l.Debug("hidden", nil)
	l.Info("hidden", nil)
	l.Error("shown", nil)

	if got := strings.TrimSpace(buf.String()); got != "level=ERROR msg=shown" {
		t.Fatalf("got %q", got)
	}
}
