// Package log provides leveled, optionally structured logging for floatview.
// Both the producer entry point and the viewer process log through it; the
// viewer's polling loop relies on logging never being fatal.
package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	isDebug = false
	mu      sync.Mutex
	logger  = NewLogger()
)

// ANSI level colors, matching the operator-facing palette of the CLI.
const (
	colorRed    = "\033[91m"
	colorYellow = "\033[93m"
	colorBlue   = "\033[94m"
	colorGrey   = "\033[90m"
	colorReset  = "\033[0m"
)

// Field is a single key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F creates a structured logging field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes timestamped, leveled log lines to one or more sinks.
type Logger struct {
	out      io.Writer
	file     *os.File
	jsonMode bool
	color    bool
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput directs log output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.out = w
		l.color = false
	}
}

// WithJSON switches the logger to one-JSON-object-per-line output.
func WithJSON() Option {
	return func(l *Logger) {
		l.jsonMode = true
		l.color = false
	}
}

// WithFile tees log output to the named file in addition to stdout.
// A file that cannot be opened is reported once and otherwise ignored.
func WithFile(path string) Option {
	return func(l *Logger) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log: cannot open %s: %v\n", path, err)
			return
		}
		l.file = f
	}
}

// NewLogger creates a logger writing colored text to stdout.
func NewLogger(opts ...Option) *Logger {
	l := &Logger{out: os.Stdout, color: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil && logger.file != nil {
		logger.file.Close()
	}
	logger = NewLogger(opts...)
}

// SetDebug toggles emission of debug-level messages.
func SetDebug(debug bool) {
	isDebug = debug
}

// Entry is a pending log statement carrying structured fields.
type Entry struct {
	l      *Logger
	fields []Field
}

// With returns an entry carrying the given fields.
func (l *Logger) With(fields ...Field) *Entry {
	return &Entry{l: l, fields: fields}
}

// With adds further fields to the entry.
func (e *Entry) With(fields ...Field) *Entry {
	merged := append(append([]Field{}, e.fields...), fields...)
	return &Entry{l: e.l, fields: merged}
}

// LogWithFields starts an entry on the package-level logger.
func LogWithFields(fields ...Field) *Entry {
	return current().With(fields...)
}

func (e *Entry) Info(format string, args ...interface{})  { e.l.log("INFO", e.fields, format, args...) }
func (e *Entry) Warn(format string, args ...interface{})  { e.l.log("WARN", e.fields, format, args...) }
func (e *Entry) Error(format string, args ...interface{}) { e.l.log("ERROR", e.fields, format, args...) }

func (e *Entry) Debug(format string, args ...interface{}) {
	if isDebug {
		e.l.log("DEBUG", e.fields, format, args...)
	}
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log("INFO", nil, format, args...)
}

// Infof logs a formatted message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log("INFO", nil, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log("WARN", nil, format, args...)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log("WARN", nil, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log("ERROR", nil, format, args...)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log("ERROR", nil, format, args...)
}

// Debug logs a message when debug mode is enabled
func (l *Logger) Debug(format string, args ...interface{}) {
	if isDebug {
		l.log("DEBUG", nil, format, args...)
	}
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug {
		l.log("DEBUG", nil, format, args...)
	}
}

func (l *Logger) log(level string, fields []Field, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	ts := time.Now().Format("2006-01-02 15:04:05")
	caller := callerInfo()

	var line string
	if l.jsonMode {
		entry := map[string]interface{}{
			"timestamp": ts,
			"level":     level,
			"message":   msg,
			"caller":    caller,
		}
		for _, f := range fields {
			entry[f.Key] = f.Value
		}
		if data, err := json.Marshal(entry); err == nil {
			line = string(data)
		} else {
			line = plainLine(ts, level, caller, msg, fields)
		}
	} else if l.color {
		line = fmt.Sprintf("[%s] %s%s%s %s: %s", ts, levelColor(level), level, colorReset, caller, msg)
		for _, f := range fields {
			line += fmt.Sprintf(" %s=%v", f.Key, f.Value)
		}
	} else {
		line = plainLine(ts, level, caller, msg, fields)
	}

	fmt.Fprintln(l.out, line)
	if l.file != nil {
		fmt.Fprintln(l.file, plainLine(ts, level, caller, msg, fields))
	}
}

func plainLine(ts, level, caller, msg string, fields []Field) string {
	line := fmt.Sprintf("[%s] %s %s: %s", ts, level, caller, msg)
	for _, f := range fields {
		line += fmt.Sprintf(" %s=%v", f.Key, f.Value)
	}
	return line
}

func levelColor(level string) string {
	switch level {
	case "ERROR":
		return colorRed
	case "WARN":
		return colorYellow
	case "INFO":
		return colorBlue
	default:
		return colorGrey
	}
}

func callerInfo() string {
	// Walk up past this package's own frames.
	for skip := 3; skip < 10; skip++ {
		_, file, line, ok := runtime.Caller(skip)
		if !ok {
			break
		}
		if filepath.Base(filepath.Dir(file)) != "log" {
			return fmt.Sprintf("%s:%d", filepath.Base(file), line)
		}
	}
	return "???"
}

// Package-level convenience functions mirroring the Logger methods.

func Info(format string, args ...interface{})  { current().log("INFO", nil, format, args...) }
func Infof(format string, args ...interface{}) { current().log("INFO", nil, format, args...) }
func Warn(format string, args ...interface{})  { current().log("WARN", nil, format, args...) }
func Warnf(format string, args ...interface{}) { current().log("WARN", nil, format, args...) }
func Error(format string, args ...interface{}) { current().log("ERROR", nil, format, args...) }
func Errorf(format string, args ...interface{}) {
	current().log("ERROR", nil, format, args...)
}

func Debug(format string, args ...interface{}) {
	if isDebug {
		current().log("DEBUG", nil, format, args...)
	}
}

func Debugf(format string, args ...interface{}) {
	if isDebug {
		current().log("DEBUG", nil, format, args...)
	}
}

func current() *Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}
