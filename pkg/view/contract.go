// Package view binds named events to metric windows and line buffers and
// pushes their projections to rendering widgets.
//
// The rendering layer, the event bus and the layout source are consumed
// through the small interfaces below; pkg/widget provides the terminal
// implementation and tests provide fakes.
package view

import (
	"github.com/dkoosis/pulse/pkg/event"
	"github.com/dkoosis/pulse/pkg/series"
)

// Rect is a widget position in terminal cells.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Contains reports whether the cell (x, y) falls inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Left+r.Width && y >= r.Top && y < r.Top+r.Height
}

// Widget is anything placed on a Container.
type Widget interface {
	Position() Rect
}

// GraphWidget draws one or more series under a label.
type GraphWidget interface {
	Widget
	SetLabel(text string)
	SetData(list []series.Series)
}

// LogWidget shows a scrollable list of lines.
type LogWidget interface {
	Widget
	// SetLines replaces the shown lines; follow moves the viewport to the
	// newest line.
	SetLines(lines []string, follow bool)
	// OnScroll registers the handler called with the scroll offset, in
	// percent, after every user scroll.
	OnScroll(fn func(percent float64))
	// Offset and SetOffset read and restore the index of the first visible
	// line, so a replacement widget can keep the reader's place.
	Offset() int
	SetOffset(n int)
}

// Container owns the placement of widgets on screen.
type Container interface {
	Size() (width, height int)
	Append(w Widget)
	Remove(w Widget)
}

// GraphStyle configures a new graph widget.
type GraphStyle struct {
	Label          string
	Unit           string
	Color          string
	HighWaterColor string
}

// LogStyle configures a new log widget.
type LogStyle struct {
	Label string
	Color string
}

// Factory creates widgets. Widgets are replaced, not moved, when their
// position changes.
type Factory interface {
	NewGraph(style GraphStyle, pos Rect) GraphWidget
	NewLog(style LogStyle, pos Rect) LogWidget
}

// Subscriber is the part of the event bus a view needs.
type Subscriber interface {
	Subscribe(name string, h event.Handler) (unsubscribe func())
}

// LayoutConfig is re-evaluated on every layout change.
type LayoutConfig struct {
	// Limit is the number of samples a graph shows.
	Limit int
	// GetPosition places the view inside its container.
	GetPosition func(c Container) Rect
}

// Binding is the lifecycle shared by all views.
type Binding interface {
	OnLayoutChange(cfg LayoutConfig)
	Close()
}
