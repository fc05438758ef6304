package adaptors

import "strings"

type LogLevel string

const (
	Trace LogLevel = "trace"
	Debug LogLevel = "debug"
	Info  LogLevel = "info"
	Warn  LogLevel = "warn"
	Error LogLevel = "error"
)

// LogLevels lists the levels accepted in APP_LOG_LEVEL.
func LogLevels() []LogLevel {
	return []LogLevel{Trace, Debug, Info, Warn, Error}
}

// ParseLogLevel matches s case-insensitively against the accepted levels.
func ParseLogLevel(s string) (LogLevel, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range LogLevels() {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}
