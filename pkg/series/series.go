// Package series projects metric windows into the x/y data a graph widget draws.
package series

import (
	"strconv"

	"github.com/dkoosis/pulse/pkg/window"
)

// Series is one line on a graph. X holds the axis labels, newest sample last.
type Series struct {
	Name string
	X    []string
	Y    []float64
}

// Projection is the renderable state of one graph.
type Projection struct {
	Primary   Series
	HighWater *Series
}

// Names used for the projected series.
const (
	PrimaryName   = "value"
	HighWaterName = "high"
)

// List returns the series in draw order: primary first, then the high-water
// line once it carries data.
func (p Projection) List() []Series {
	list := []Series{p.Primary}
	if p.HighWater != nil && len(p.HighWater.Y) > 0 {
		list = append(list, *p.HighWater)
	}
	return list
}

// XLabels returns the reverse count n-1 … 0.
func XLabels(n int) []string {
	if n < 0 {
		n = 0
	}
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(n - 1 - i)
	}
	return labels
}

// Project reads the trailing capacity of w. A non-nil highWater adds a flat
// reference line of the same width at that value.
func Project(w *window.Window, highWater *float64) Projection {
	n := w.Capacity()
	x := XLabels(n)
	p := Projection{
		Primary: Series{Name: PrimaryName, X: x, Y: w.Visible()},
	}
	if highWater != nil {
		y := make([]float64, n)
		for i := range y {
			y[i] = *highWater
		}
		p.HighWater = &Series{Name: HighWaterName, X: append([]string(nil), x...), Y: y}
	}
	return p
}

// Empty returns a projection whose high-water line has labels but no data
// yet. Graphs that track a high-water value start out this way.
func Empty(w *window.Window, trackHighWater bool) Projection {
	p := Project(w, nil)
	if trackHighWater {
		p.HighWater = &Series{Name: HighWaterName, X: XLabels(w.Capacity())}
	}
	return p
}

// FormatLabel renders a graph title.
//
//	cpu (29%)
//	event loop delay (2), high (4)
func FormatLabel(name, unit string, latest float64, highWater *float64) string {
	if highWater != nil {
		return name + " (" + FormatValue(latest) + "), high (" + FormatValue(*highWater) + ")"
	}
	return name + " (" + FormatValue(latest) + unit + ")"
}

// FormatValue prints v in its shortest exact decimal form.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
