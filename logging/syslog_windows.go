//go:build windows || plan9

package logging

import "errors"

// openSyslog reports the facility as unavailable; the logger degrades to
// file-only logging on platforms without a system log.
func openSyslog(tag string) (syslogSink, error) {
	return nil, errors.New("no system log facility on this platform")
}
