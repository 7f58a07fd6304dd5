package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Level is the severity of a log record.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

var levelPrefixes = []string{
	LevelDebug:    "[DEBUG]",
	LevelInfo:     "[INFO]",
	LevelWarning:  "[WARNING]",
	LevelError:    "[ERROR]",
	LevelCritical: "[CRITICAL]",
}

func (l Level) String() string {
	if int(l) < len(levelPrefixes) {
		return levelPrefixes[l]
	}
	return "[INFO]"
}

// ParseLevel maps a config string like "debug" or "warning" to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical":
		return LevelCritical, nil
	}
	return LevelInfo, fmt.Errorf("logging: unknown level %q", s)
}

// slogLevel maps a Level onto the slog scale for the optional handler sink.
// Critical has no slog equivalent and lands above slog.LevelError.
func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelError + 4
	}
}

// Config holds logger construction parameters. The zero value logs every
// level to "log.txt" in the working directory with syslog disabled.
type Config struct {
	// Path of the append-only log file. Ignored when Output is set.
	Path string

	// Output overrides Path with an arbitrary writer. Rotation is disabled
	// in that mode. Mainly for tests.
	Output io.Writer

	// Syslog mirrors every record to the system log facility. No-op on
	// platforms without one.
	Syslog bool

	// Tag identifies this program to syslog. Defaults to "serveme".
	Tag string

	// MinLevel drops records below it. Defaults to LevelInfo.
	MinLevel Level

	// Handler is an optional extra sink, e.g. otelslog.NewHandler(...).
	Handler slog.Handler

	// MaxSize rotates the log file once it grows past this many bytes; the
	// rotated file is gzip-compressed next to the live one. Zero disables
	// rotation and keeps the file append-only forever.
	MaxSize int64

	// Fallback receives diagnostics when a sink write fails. Defaults to
	// os.Stderr. Sink failures are reported there and swallowed; logging
	// never returns an error to the caller.
	Fallback io.Writer
}

// Logger writes leveled, timestamped records to a log file and optionally to
// syslog and an slog.Handler. A single mutex guards all sinks so concurrent
// callers never interleave within one line.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	file     *os.File
	path     string
	size     int64
	maxSize  int64
	sys      syslogSink
	handler  slog.Handler
	minLevel Level
	fallback io.Writer
}

// New opens the configured sinks. An unopenable log file is a construction
// failure and is returned rather than printed, so the embedding program can
// refuse to serve.
func New(cfg Config) (*Logger, error) {
	if cfg.Fallback == nil {
		cfg.Fallback = os.Stderr
	}
	if cfg.Tag == "" {
		cfg.Tag = "serveme"
	}

	l := &Logger{
		handler:  cfg.Handler,
		minLevel: cfg.MinLevel,
		fallback: cfg.Fallback,
		maxSize:  cfg.MaxSize,
	}

	if cfg.Output != nil {
		l.out = cfg.Output
		l.maxSize = 0
	} else {
		path := cfg.Path
		if path == "" {
			path = "log.txt"
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("logging: open log file: %w", err)
		}
		info, err := file.Stat()
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("logging: stat log file: %w", err)
		}
		l.file = file
		l.out = file
		l.path = path
		l.size = info.Size()
	}

	if cfg.Syslog {
		sys, err := openSyslog(cfg.Tag)
		if err != nil {
			// The file sink is the primary one; a missing system log
			// degrades to file-only logging, noted on the fallback stream.
			fmt.Fprintf(cfg.Fallback, "%s logging: system log unavailable: %v\n", LevelWarning, err)
		} else {
			l.sys = sys
		}
	}

	return l, nil
}

// Log formats one record and appends it to every sink. Sink errors go to the
// fallback stream; Log itself never fails.
func (l *Logger) Log(level Level, message string) {
	if level < l.minLevel {
		return
	}

	stamp := time.Now().Format("2006-01-02 15:04:05")
	line := stamp + " " + level.String() + " " + message + "\n"

	l.mu.Lock()
	if _, err := io.WriteString(l.out, line); err != nil {
		fmt.Fprintf(l.fallback, "%s logging: write log file: %v\n", LevelError, err)
	} else if l.maxSize > 0 {
		l.size += int64(len(line))
		if l.size >= l.maxSize {
			l.rotateLocked()
		}
	}
	if l.sys != nil {
		if err := l.sys.Emit(level, line[:len(line)-1]); err != nil {
			fmt.Fprintf(l.fallback, "%s logging: write system log: %v\n", LevelError, err)
		}
	}
	l.mu.Unlock()

	if l.handler != nil {
		l.emitHandler(level, message)
	}
}

// emitHandler forwards the record to the optional slog sink. The handler is
// outside the mutex: slog handlers are required to be concurrency-safe.
func (l *Logger) emitHandler(level Level, message string) {
	ctx := context.Background()
	sl := level.slogLevel()
	if !l.handler.Enabled(ctx, sl) {
		return
	}
	rec := slog.NewRecord(time.Now(), sl, message, 0)
	if err := l.handler.Handle(ctx, rec); err != nil {
		fmt.Fprintf(l.fallback, "%s logging: slog handler: %v\n", LevelError, err)
	}
}

func (l *Logger) Debug(message string)    { l.Log(LevelDebug, message) }
func (l *Logger) Info(message string)     { l.Log(LevelInfo, message) }
func (l *Logger) Warning(message string)  { l.Log(LevelWarning, message) }
func (l *Logger) Error(message string)    { l.Log(LevelError, message) }
func (l *Logger) Critical(message string) { l.Log(LevelCritical, message) }

func (l *Logger) Debugf(format string, args ...any) { l.Log(LevelDebug, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)  { l.Log(LevelInfo, fmt.Sprintf(format, args...)) }
func (l *Logger) Warningf(format string, args ...any) {
	l.Log(LevelWarning, fmt.Sprintf(format, args...))
}
func (l *Logger) Errorf(format string, args ...any) { l.Log(LevelError, fmt.Sprintf(format, args...)) }
func (l *Logger) Criticalf(format string, args ...any) {
	l.Log(LevelCritical, fmt.Sprintf(format, args...))
}

// Close flushes and closes the file and syslog sinks. The logger must not be
// used afterwards.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	if l.file != nil {
		if err := l.file.Close(); err != nil {
			firstErr = err
		}
		l.file = nil
		l.out = io.Discard
	}
	if l.sys != nil {
		if err := l.sys.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		l.sys = nil
	}
	return firstErr
}

// syslogSink is the system log facility behind Logger. Platform files
// provide openSyslog; on platforms without a system log it reports
// unavailability and the logger stays file-only.
type syslogSink interface {
	Emit(level Level, message string) error
	Close() error
}
