// Package debug provides logging and timing utilities for development and
// benchmarking. Nothing in this package is used on the audio path.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
	// LogLevelOff disables all logging.
	LogLevelOff
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger provides leveled logging with an optional prefix.
type Logger struct {
	mu          sync.Mutex
	output      io.Writer
	level       LogLevel
	prefix      string
	includeTime bool
}

// NewLogger creates a logger writing to output at the given level.
func NewLogger(output io.Writer, prefix string, level LogLevel) *Logger {
	if output == nil {
		output = os.Stderr
	}
	return &Logger{
		output:      output,
		level:       level,
		prefix:      prefix,
		includeTime: true,
	}
}

// SetLevel changes the minimum level that is written.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetIncludeTime toggles the timestamp in front of each message.
func (l *Logger) SetIncludeTime(include bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.includeTime = include
}

func (l *Logger) log(level LogLevel, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	var head string
	if l.includeTime {
		head = time.Now().Format("15:04:05.000") + " "
	}
	if l.prefix != "" {
		head += "[" + l.prefix + "] "
	}
	fmt.Fprintf(l.output, "%s%s: %s\n", head, level, fmt.Sprintf(format, args...))
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.log(LogLevelDebug, format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.log(LogLevelInfo, format, args...)
}

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) {
	l.log(LogLevelWarn, format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.log(LogLevelError, format, args...)
}
