package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Output encodings.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The first call decides level and
// format; later calls return the same instance.
func Get(level string, format ...string) *Logger {
	once.Do(func() {
		f := FormatConsole
		if len(format) > 0 && format[0] != "" {
			f = format[0]
		}
		globalLogger = New(level, f)
	})
	return globalLogger
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *Logger {
	return newNop()
}
