// Package logging is a small leveled, structured logger. The terminal
// belongs to the dashboard while it runs, so entries normally go to a file.
package logging

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// Level is a logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a level name to a Level. Unknown names return LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Field is a key/value pair attached to an entry.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field { return Field{Key: key, Value: value} }

// Format selects the line encoding of an Output.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Entry is one log record.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Output is a log destination.
type Output interface {
	Write(e Entry) error
	Close() error
}

// Logger writes entries at or above its level to every output.
type Logger struct {
	mu      *sync.RWMutex
	level   *Level
	outputs *[]Output
	fields  map[string]any
	now     func() time.Time
}

// New creates a logger with the given outputs.
func New(level Level, outputs ...Output) *Logger {
	outs := append([]Output(nil), outputs...)
	return &Logger{
		mu:      &sync.RWMutex{},
		level:   &level,
		outputs: &outs,
		fields:  map[string]any{},
		now:     time.Now,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger { return New(LevelError + 1) }

func (l *Logger) log(level Level, msg string, fields ...Field) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if level < *l.level || len(*l.outputs) == 0 {
		return
	}

	e := Entry{
		Timestamp: l.now(),
		Level:     level.String(),
		Message:   msg,
	}
	if len(l.fields)+len(fields) > 0 {
		e.Fields = make(map[string]any, len(l.fields)+len(fields))
		for k, v := range l.fields {
			e.Fields[k] = v
		}
		for _, f := range fields {
			e.Fields[f.Key] = f.Value
		}
	}
	for _, out := range *l.outputs {
		if err := out.Write(e); err != nil {
			log.Printf("logging: write entry: %v", err)
		}
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields...) }

func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)  { l.log(LevelInfo, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(LevelWarn, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, fmt.Sprintf(format, args...)) }

// With returns a logger that adds fields to every entry. It shares level
// and outputs with l.
func (l *Logger) With(fields ...Field) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &Logger{mu: l.mu, level: l.level, outputs: l.outputs, fields: merged, now: l.now}
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.level = level
}

// Enabled reports whether entries at level are written.
func (l *Logger) Enabled(level Level) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level >= *l.level
}

// AddOutput adds a destination.
func (l *Logger) AddOutput(out Output) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.outputs = append(*l.outputs, out)
}

// Close closes every output and removes them.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var first error
	for _, out := range *l.outputs {
		if err := out.Close(); err != nil && first == nil {
			first = err
		}
	}
	*l.outputs = nil
	return first
}
