package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

// encode renders e as one line without the trailing newline.
func encode(e Entry, format Format) (string, error) {
	if format == FormatJSON {
		data, err := sonic.Marshal(e)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	var b strings.Builder
	b.WriteString(e.Timestamp.Format("2006/01/02 15:04:05"))
	b.WriteString(" [")
	b.WriteString(e.Level)
	b.WriteString("] ")
	b.WriteString(e.Message)
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
		}
	}
	return b.String(), nil
}

// WriterOutput writes entries to an io.Writer, one per line.
type WriterOutput struct {
	mu     sync.Mutex
	w      io.Writer
	format Format
}

// NewWriterOutput creates an output on w.
func NewWriterOutput(w io.Writer, format Format) *WriterOutput {
	return &WriterOutput{w: w, format: format}
}

// Write implements Output.
func (o *WriterOutput) Write(e Entry) error {
	line, err := encode(e, o.format)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err = fmt.Fprintln(o.w, line)
	return err
}

// Close implements Output. The writer is not closed.
func (o *WriterOutput) Close() error { return nil }

// FileOutput appends entries to a file.
type FileOutput struct {
	WriterOutput
	file *os.File
}

// NewFileOutput opens path for appending, creating its directory.
func NewFileOutput(path string, format Format) (*FileOutput, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &FileOutput{WriterOutput: WriterOutput{w: f, format: format}, file: f}, nil
}

// Close implements Output.
func (o *FileOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.file.Close()
}

// DefaultPath returns ~/.pulse/pulse.log, or a file in the temp directory
// when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "pulse.log")
	}
	return filepath.Join(home, ".pulse", "pulse.log")
}
