// Command jsonbody-echo serves a small typed JSON API to exercise the
// adapter end to end:
//
//	curl -s -H 'Content-Type: application/json' -d '{"bar":"bar"}' localhost:8080/foo
package main

import (
	"context"
	"errors"
	"fmt"
	stdslog "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/jsonbody"
	"github.com/unkn0wn-root/jsonbody/codec"
	asynchook "github.com/unkn0wn-root/jsonbody/hooks/async"
	sloghook "github.com/unkn0wn-root/jsonbody/hooks/slog"
	"github.com/unkn0wn-root/jsonbody/httpjson"
	logruslog "github.com/unkn0wn-root/jsonbody/log/logrus"
	sloglog "github.com/unkn0wn-root/jsonbody/log/slog"
	zaplog "github.com/unkn0wn-root/jsonbody/log/zap"
)

type Foo struct {
	Bar string `json:"bar"`
}

func (f Foo) Validate() error {
	return jsonbody.Require(f.Bar == "bar", "bar must be 'bar'!")
}

type Echo struct {
	Foo      Foo       `json:"foo"`
	Received time.Time `json:"received"`
}

type config struct {
	addr       string
	serializer string
	logger     string
	maxBody    int64
	gzip       bool
	aliases    []string
	debug      bool
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := pflag.NewFlagSet("jsonbody-echo", pflag.ContinueOnError)
	fs.StringVarP(&cfg.addr, "addr", "a", ":8080", "listen address")
	fs.StringVar(&cfg.serializer, "serializer", "std", "JSON backend: std, gojson or fast")
	fs.StringVar(&cfg.logger, "log", "slog", "logger: slog, zap or logrus")
	fs.Int64Var(&cfg.maxBody, "max-body", httpjson.DefaultMaxBodyBytes, "maximum request body size in bytes")
	fs.BoolVar(&cfg.gzip, "gzip", false, "gzip large responses")
	fs.StringSliceVar(&cfg.aliases, "alias", nil, "extra accepted request content types")
	fs.BoolVarP(&cfg.debug, "debug", "d", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func serializerFor(name string) (codec.Serializer, error) {
	switch name {
	case "std":
		return codec.StdJSON(), nil
	case "gojson":
		return codec.GoJSON(nil, nil), nil
	case "fast":
		return codec.Fast(), nil
	}
	return nil, fmt.Errorf("unknown serializer %q", name)
}

func loggerFor(name string, debug bool) (jsonbody.Logger, func(), error) {
	switch name {
	case "slog":
		level := stdslog.LevelInfo
		if debug {
			level = stdslog.LevelDebug
		}
		l := stdslog.New(stdslog.NewJSONHandler(os.Stderr, &stdslog.HandlerOptions{Level: level}))
		return sloglog.Logger{L: l}, func() {}, nil
	case "zap":
		cfg := zap.NewProductionConfig()
		if debug {
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return nil, nil, err
		}
		return zaplog.New(l), func() { _ = l.Sync() }, nil
	case "logrus":
		l := logrus.New()
		l.SetFormatter(&logrus.JSONFormatter{})
		if debug {
			l.SetLevel(logrus.DebugLevel)
		}
		return logruslog.New(l), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown logger %q", name)
}

func newMux(cfg config, log jsonbody.Logger, hooks jsonbody.Hooks) (http.Handler, error) {
	ser, err := serializerFor(cfg.serializer)
	if err != nil {
		return nil, err
	}

	reg := jsonbody.NewRegistry()
	if _, _, err := jsonbody.Use(reg, jsonbody.Options[Foo]{Serializer: ser, ContentTypes: cfg.aliases}); err != nil {
		return nil, err
	}
	if _, _, err := jsonbody.Use(reg, jsonbody.Options[Echo]{Serializer: ser}); err != nil {
		return nil, err
	}

	opts := httpjson.Options{
		MaxBodyBytes: cfg.maxBody,
		Logger:       log,
		Hooks:        hooks,
	}
	echo, err := httpjson.HandleFrom[Foo, Echo](reg, func(_ context.Context, f Foo) (Echo, error) {
		return Echo{Foo: f, Received: time.Now().UTC()}, nil
	}, opts, codec.MustCBOR[Echo](false), codec.Msgpack[Echo]{UseJSONTags: true})
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("POST /foo", echo)
	if !cfg.gzip {
		return mux, nil
	}
	gz, err := httpjson.Gzip(0)
	if err != nil {
		return nil, err
	}
	return gz(mux), nil
}

func run(args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}
	log, flush, err := loggerFor(cfg.logger, cfg.debug)
	if err != nil {
		return err
	}
	defer flush()

	hooks := asynchook.New(sloghook.New(stdslog.Default(), sloghook.Options{RejectEvery: 10}), 1, 1000)
	defer hooks.Close()

	h, err := newMux(cfg, log, hooks)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", jsonbody.Fields{"addr": cfg.addr, "serializer": cfg.serializer})
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down", nil)
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "jsonbody-echo:", err)
		os.Exit(1)
	}
}
