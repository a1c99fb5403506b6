// Package linebuf implements the bounded, scroll-aware line buffer behind
// log stream panes.
package linebuf

import (
	"fmt"
	"strings"
)

// BottomPercent is the scroll offset reported when the viewport shows the
// newest line.
const BottomPercent = 100

// Buffer retains the most recent lines of a stream, oldest first.
// It is not safe for concurrent use; callers serialize access.
type Buffer struct {
	capacity       int
	lines          []string
	evicted        int
	userScrolledUp bool
}

// New creates an empty buffer. A capacity of zero or less means unbounded.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{capacity: capacity}
}

// Append adds one line. A single trailing newline is stripped. When the
// buffer is over capacity the oldest lines are evicted.
func (b *Buffer) Append(text string) {
	b.lines = append(b.lines, strings.TrimSuffix(text, "\n"))
	if b.capacity > 0 && len(b.lines) > b.capacity {
		drop := len(b.lines) - b.capacity
		b.lines = append(b.lines[:0], b.lines[drop:]...)
		b.evicted += drop
	}
}

// AppendValue appends v, formatting non-string values with their field names.
func (b *Buffer) AppendValue(v any) {
	switch v := v.(type) {
	case string:
		b.Append(v)
	case []byte:
		b.Append(string(v))
	case fmt.Stringer:
		b.Append(v.String())
	case error:
		b.Append(v.Error())
	default:
		b.Append(fmt.Sprintf("%+v", v))
	}
}

// NotifyScroll records a viewport scroll to percent of the content.
// Any offset other than the bottom marks the buffer as scrolled up; only
// returning exactly to the bottom re-enables following.
func (b *Buffer) NotifyScroll(percent float64) {
	if percent == BottomPercent {
		b.userScrolledUp = false
		return
	}
	b.userScrolledUp = true
}

// UserScrolledUp reports whether the viewer has left the bottom.
func (b *Buffer) UserScrolledUp() bool { return b.userScrolledUp }

// Follow reports whether the renderer should jump to the newest line.
func (b *Buffer) Follow() bool { return !b.userScrolledUp }

// Lines returns a copy of the retained lines.
func (b *Buffer) Lines() []string {
	return append([]string(nil), b.lines...)
}

// Len returns the number of retained lines.
func (b *Buffer) Len() int { return len(b.lines) }

// Capacity returns the configured bound, zero when unbounded.
func (b *Buffer) Capacity() int { return b.capacity }

// Evicted returns how many lines have been dropped since creation.
func (b *Buffer) Evicted() int { return b.evicted }
