// Package serveme is a minimal embeddable HTTP server: register static or
// file-backed responses under (path, method) pairs, then run the serve loop.
// Parsed just far enough to route, answered from a response cache, logged to
// a file and optionally syslog.
package serveme

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/FortovEgor/ServeMe/cache"
	"github.com/FortovEgor/ServeMe/http"
	"github.com/FortovEgor/ServeMe/logging"
)

// App ties the pieces together: the logger, the optional response cache and
// the accept loop. Configure it with options, register endpoints, then Run.
type App struct {
	logger *logging.Logger
	server *http.Server
	addr   string

	mu       sync.Mutex
	listener net.Listener
	stopOnce sync.Once
}

// New builds an application. The defaults match an unconfigured deployment:
// port 8080, log file "log.txt", syslog on, response cache on. A logger that
// cannot open its file is a construction failure; Run must not be called
// after an error.
func New(opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger, err := logging.New(logging.Config{
		Path:     o.logFile,
		Output:   o.logOutput,
		Syslog:   o.syslog,
		Tag:      "serveme",
		MinLevel: o.minLevel,
		Handler:  o.handler,
		MaxSize:  o.logMaxSize,
	})
	if err != nil {
		return nil, fmt.Errorf("serveme: %w", err)
	}

	server := http.NewServer(logger)
	if o.cacheEnabled {
		var cacheOpts []cache.Option
		if o.legacyKeys {
			cacheOpts = append(cacheOpts, cache.WithLegacyMethodKeys())
		}
		if o.cacheMetrics != nil {
			cacheOpts = append(cacheOpts, cache.WithMetrics(o.cacheMetrics))
		}
		server.Cache = cache.NewResponseCache(cacheOpts...)
	}

	return &App{
		logger: logger,
		server: server,
		addr:   net.JoinHostPort(o.host, strconv.Itoa(o.port)),
	}, nil
}

// AddEndpoint registers a response under a (path, method) pair. The body is
// served as-is unless it starts with "@file:", which makes the remainder a
// file path read on each cache miss. Only "GET" and "POST" are accepted
// method tokens; anything else is an error.
func (app *App) AddEndpoint(path string, body string, method string) error {
	parsed, ok := http.ParseMethod(method)
	if !ok {
		return fmt.Errorf("serveme: unsupported method %q", method)
	}

	app.server.AddEndpoint(path, parsed, http.Source{Value: body})
	return nil
}

// Register is the typed registration door; unlike AddEndpoint it can carry a
// content type.
func (app *App) Register(path string, method http.Method, source http.Source) {
	app.server.AddEndpoint(path, method, source)
}

// Run binds the configured address and serves until Stop or Shutdown. A bind
// failure is logged at critical and returned.
func (app *App) Run() error {
	listener, err := net.Listen("tcp", app.addr)
	if err != nil {
		app.logger.Criticalf("bind %s: %v", app.addr, err)
		return fmt.Errorf("serveme: bind %s: %w", app.addr, err)
	}

	app.mu.Lock()
	app.listener = listener
	app.mu.Unlock()

	app.logger.Infof("serving on %s", listener.Addr())

	err = app.server.Serve(context.Background(), listener)
	app.logger.Info("server stopped")
	return err
}

// Stop ends the serve loop and drains in-flight sessions without a deadline.
// It is idempotent and safe to call from any goroutine.
func (app *App) Stop() {
	app.stopOnce.Do(func() {
		app.logger.Info("shutting down")
		if err := app.server.Shutdown(context.Background()); err != nil {
			app.logger.Errorf("shutdown: %v", err)
		}
	})
}

// Shutdown is Stop with a deadline: when ctx expires, still-open connections
// are force-closed and ctx's error is returned. Later calls are no-ops.
func (app *App) Shutdown(ctx context.Context) error {
	var err error
	app.stopOnce.Do(func() {
		app.logger.Info("shutting down")
		err = app.server.Shutdown(ctx)
	})
	return err
}

// Addr reports the bound listen address once Run has bound it, and the
// configured one before that. With port 0 the bound address carries the
// kernel-chosen port.
func (app *App) Addr() string {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.listener != nil {
		return app.listener.Addr().String()
	}
	return app.addr
}

// Logger exposes the application logger so embedding programs can write
// their own records next to the server's.
func (app *App) Logger() *logging.Logger {
	return app.logger
}

// Close releases the log file and syslog handles. Call it after Run returns.
func (app *App) Close() error {
	return app.logger.Close()
}
