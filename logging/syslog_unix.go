//go:build !windows && !plan9

package logging

import "log/syslog"

type unixSyslog struct {
	w *syslog.Writer
}

func openSyslog(tag string) (syslogSink, error) {
	w, err := syslog.New(syslog.LOG_INFO|syslog.LOG_USER, tag)
	if err != nil {
		return nil, err
	}
	return &unixSyslog{w: w}, nil
}

// Emit maps the record onto the matching syslog priority.
func (s *unixSyslog) Emit(level Level, message string) error {
	switch level {
	case LevelDebug:
		return s.w.Debug(message)
	case LevelWarning:
		return s.w.Warning(message)
	case LevelError:
		return s.w.Err(message)
	case LevelCritical:
		return s.w.Crit(message)
	default:
		return s.w.Info(message)
	}
}

func (s *unixSyslog) Close() error {
	return s.w.Close()
}
