package view

import (
	"github.com/dkoosis/pulse/pkg/series"
)

type fakeGraph struct {
	pos    Rect
	style  GraphStyle
	labels []string
	data   [][]series.Series
}

func (f *fakeGraph) Position() Rect                { return f.pos }
func (f *fakeGraph) SetLabel(text string)          { f.labels = append(f.labels, text) }
func (f *fakeGraph) SetData(list []series.Series) { f.data = append(f.data, list) }

func (f *fakeGraph) lastData() []series.Series {
	if len(f.data) == 0 {
		return nil
	}
	return f.data[len(f.data)-1]
}

func (f *fakeGraph) lastLabel() string {
	if len(f.labels) == 0 {
		return ""
	}
	return f.labels[len(f.labels)-1]
}

type fakeLog struct {
	pos      Rect
	style    LogStyle
	lines    []string
	follow   bool
	offset   int
	onScroll func(float64)
}

func (f *fakeLog) Position() Rect { return f.pos }

func (f *fakeLog) SetLines(lines []string, follow bool) {
	f.lines = lines
	f.follow = follow
}

func (f *fakeLog) OnScroll(fn func(float64)) { f.onScroll = fn }
func (f *fakeLog) Offset() int               { return f.offset }
func (f *fakeLog) SetOffset(n int)           { f.offset = n }

type fakeContainer struct {
	width, height int
	widgets       []Widget
	removed       int
}

func (c *fakeContainer) Size() (int, int) { return c.width, c.height }
func (c *fakeContainer) Append(w Widget) { c.widgets = append(c.widgets, w) }

func (c *fakeContainer) Remove(w Widget) {
	for i, x := range c.widgets {
		if x == w {
			c.widgets = append(c.widgets[:i], c.widgets[i+1:]...)
			c.removed++
			return
		}
	}
}

type fakeFactory struct {
	graphs []*fakeGraph
	logs   []*fakeLog
}

func (f *fakeFactory) NewGraph(style GraphStyle, pos Rect) GraphWidget {
	g := &fakeGraph{pos: pos, style: style}
	f.graphs = append(f.graphs, g)
	return g
}

func (f *fakeFactory) NewLog(style LogStyle, pos Rect) LogWidget {
	l := &fakeLog{pos: pos, style: style}
	f.logs = append(f.logs, l)
	return l
}

func fixedAt(r Rect) func(Container) Rect {
	return func(Container) Rect { return r }
}
