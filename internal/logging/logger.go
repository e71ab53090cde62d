// Package logging provides structured, leveled logging with JSON or text
// output.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelFatal Level = "fatal"
)

// Format represents the output format for logs.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

var levelOrder = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
	LevelFatal: 4,
}

// Logger writes structured log entries at or above its configured level.
type Logger struct {
	level  Level
	format Format
	output io.Writer
	fields map[string]interface{}
}

// Entry is a single serialized log line.
type Entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Caller    string                 `json:"caller,omitempty"`
}

// NewLogger creates a logger writing to stdout.
func NewLogger(level Level, format Format) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: os.Stdout,
		fields: make(map[string]interface{}),
	}
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch Level(s) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal:
		return Level(s)
	default:
		return LevelInfo
	}
}

// ParseFormat maps a config string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	if Format(s) == FormatJSON {
		return FormatJSON
	}
	return FormatText
}

func (l *Logger) clone() *Logger {
	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	return &Logger{level: l.level, format: l.format, output: l.output, fields: fields}
}

// WithField returns a logger with one additional context field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	out := l.clone()
	out.fields[key] = value
	return out
}

// WithFields returns a logger with additional context fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	out := l.clone()
	for k, v := range fields {
		out.fields[k] = v
	}
	return out
}

// WithError returns a logger with the error recorded as a field.
func (l *Logger) WithError(err error) *Logger {
	return l.WithField("error", err.Error())
}

func (l *Logger) Debug(message string)                       { l.log(LevelDebug, message) }
func (l *Logger) Debugf(format string, args ...interface{})  { l.log(LevelDebug, fmt.Sprintf(format, args...)) }
func (l *Logger) Info(message string)                        { l.log(LevelInfo, message) }
func (l *Logger) Infof(format string, args ...interface{})   { l.log(LevelInfo, fmt.Sprintf(format, args...)) }
func (l *Logger) Warn(message string)                        { l.log(LevelWarn, message) }
func (l *Logger) Warnf(format string, args ...interface{})   { l.log(LevelWarn, fmt.Sprintf(format, args...)) }
func (l *Logger) Error(message string)                       { l.log(LevelError, message) }
func (l *Logger) Errorf(format string, args ...interface{})  { l.log(LevelError, fmt.Sprintf(format, args...)) }

// Fatal logs the message and exits the process.
func (l *Logger) Fatal(message string) {
	l.log(LevelFatal, message)
	os.Exit(1)
}

// Fatalf logs the formatted message and exits the process.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.log(LevelFatal, fmt.Sprintf(format, args...))
	os.Exit(1)
}

func (l *Logger) log(level Level, message string) {
	if levelOrder[level] < levelOrder[l.level] {
		return
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    l.fields,
	}

	if level == LevelError || level == LevelFatal {
		if _, file, line, ok := runtime.Caller(2); ok {
			entry.Caller = fmt.Sprintf("%s:%d", file, line)
		}
	}

	var out string
	if l.format == FormatJSON {
		raw, _ := json.Marshal(entry)
		out = string(raw)
	} else {
		out = l.formatText(entry)
	}
	fmt.Fprintln(l.output, out)
}

func (l *Logger) formatText(entry Entry) string {
	out := fmt.Sprintf("%s [%s] %s", entry.Timestamp, entry.Level, entry.Message)
	for k, v := range entry.Fields {
		out += fmt.Sprintf(" %s=%v", k, v)
	}
	if entry.Caller != "" {
		out += " caller=" + entry.Caller
	}
	return out
}

var (
	globalMu     sync.RWMutex
	globalLogger = NewLogger(LevelInfo, FormatText)
)

// InitGlobal replaces the process-wide logger.
func InitGlobal(level Level, format Format) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = NewLogger(level, format)
}

// Global returns the process-wide logger.
func Global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}
