package logging

import (
	"io"
	"sync"
)

var (
	globalMu sync.RWMutex
	global   = Nop()
)

// Options configures the process logger.
type Options struct {
	Level  string
	Format Format
	// File is the log file path; empty disables file output.
	File string
	// Console adds an output on Stderr.
	Console bool
	Stderr  io.Writer
}

// Init replaces the process logger. The previous logger is closed.
func Init(opts Options) (*Logger, error) {
	l := New(ParseLevel(opts.Level))
	format := opts.Format
	if format == "" {
		format = FormatText
	}
	if opts.File != "" {
		out, err := NewFileOutput(opts.File, format)
		if err != nil {
			return nil, err
		}
		l.AddOutput(out)
	}
	if opts.Console && opts.Stderr != nil {
		l.AddOutput(NewWriterOutput(opts.Stderr, format))
	}
	SetDefault(l)
	return l, nil
}

// SetDefault installs l as the process logger and closes the previous one.
func SetDefault(l *Logger) {
	globalMu.Lock()
	prev := global
	global = l
	globalMu.Unlock()
	if prev != nil && prev != l {
		_ = prev.Close()
	}
}

// Default returns the process logger.
func Default() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

func Debug(msg string, fields ...Field) { Default().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { Default().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { Default().Warn(msg, fields...) }
func Error(msg string, fields ...Field) { Default().Error(msg, fields...) }

func Debugf(format string, args ...any) { Default().Debugf(format, args...) }
func Infof(format string, args ...any)  { Default().Infof(format, args...) }
func Warnf(format string, args ...any)  { Default().Warnf(format, args...) }
func Errorf(format string, args ...any) { Default().Errorf(format, args...) }
