package serveme

import (
	"io"
	"log/slog"

	"github.com/FortovEgor/ServeMe/cache"
	"github.com/FortovEgor/ServeMe/logging"
)

type options struct {
	host         string
	port         int
	logFile      string
	logOutput    io.Writer
	minLevel     logging.Level
	syslog       bool
	handler      slog.Handler
	logMaxSize   int64
	cacheEnabled bool
	legacyKeys   bool
	cacheMetrics cache.Metrics
}

func defaultOptions() options {
	return options{
		port:         8080,
		logFile:      "log.txt",
		minLevel:     logging.LevelInfo,
		syslog:       true,
		cacheEnabled: true,
	}
}

// Option configures an App before it is built.
type Option func(*options)

// WithHost restricts the listen address to one interface. The default binds
// them all.
func WithHost(host string) Option {
	return func(o *options) { o.host = host }
}

// WithPort sets the listen port. Port 0 asks the kernel for a free one; read
// it back through Addr.
func WithPort(port int) Option {
	return func(o *options) { o.port = port }
}

// WithLogFile sets the append-only log file path.
func WithLogFile(path string) Option {
	return func(o *options) { o.logFile = path }
}

// WithLogOutput sends log records to w instead of a file. Mainly for tests
// and embedders that manage files themselves.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// WithLogLevel drops records below level. The default keeps info and above.
func WithLogLevel(level logging.Level) Option {
	return func(o *options) { o.minLevel = level }
}

// WithLogRotation rotates the log file once it passes maxSize bytes and
// gzips the rotated copy. Rotation is off by default.
func WithLogRotation(maxSize int64) Option {
	return func(o *options) { o.logMaxSize = maxSize }
}

// WithLogHandler attaches an extra slog sink, e.g. the OpenTelemetry bridge
// from telemetry.NewLogHandler.
func WithLogHandler(handler slog.Handler) Option {
	return func(o *options) { o.handler = handler }
}

// WithoutSyslog keeps records out of the system log.
func WithoutSyslog() Option {
	return func(o *options) { o.syslog = false }
}

// WithoutCache renders every request instead of caching rendered responses.
func WithoutCache() Option {
	return func(o *options) { o.cacheEnabled = false }
}

// WithLegacyCacheKeys keys the response cache by method alone. See
// cache.WithLegacyMethodKeys for what that implies.
func WithLegacyCacheKeys() Option {
	return func(o *options) { o.legacyKeys = true }
}

// WithCacheMetrics installs a hit/miss recorder on the response cache.
func WithCacheMetrics(metrics cache.Metrics) Option {
	return func(o *options) { o.cacheMetrics = metrics }
}
