package widget

import (
	"sort"
	"strings"

	"github.com/dkoosis/pulse/pkg/view"
)

// Renderer is a widget that can draw itself to its position's height.
type Renderer interface {
	view.Widget
	Render() []string
}

// Screen is the root container. Widgets are drawn in the cells of their
// rectangles, which are expected not to overlap.
type Screen struct {
	width   int
	height  int
	widgets []view.Widget
}

var _ view.Container = (*Screen)(nil)

// NewScreen creates an empty screen.
func NewScreen(width, height int) *Screen {
	return &Screen{width: width, height: height}
}

// SetSize changes the drawable area.
func (s *Screen) SetSize(width, height int) {
	s.width, s.height = width, height
}

// Size implements view.Container.
func (s *Screen) Size() (int, int) { return s.width, s.height }

// Append implements view.Container.
func (s *Screen) Append(w view.Widget) { s.widgets = append(s.widgets, w) }

// Remove implements view.Container. Unknown widgets are ignored.
func (s *Screen) Remove(w view.Widget) {
	for i, x := range s.widgets {
		if x == w {
			s.widgets = append(s.widgets[:i], s.widgets[i+1:]...)
			return
		}
	}
}

// Widgets returns the widgets in draw order.
func (s *Screen) Widgets() []view.Widget {
	return append([]view.Widget(nil), s.widgets...)
}

// WidgetAt returns the topmost widget covering cell (x, y).
func (s *Screen) WidgetAt(x, y int) (view.Widget, bool) {
	for i := len(s.widgets) - 1; i >= 0; i-- {
		if s.widgets[i].Position().Contains(x, y) {
			return s.widgets[i], true
		}
	}
	return nil, false
}

type span struct {
	left  int
	width int
	text  string
}

// View composes all widgets into height lines of width cells.
func (s *Screen) View() string {
	if s.width <= 0 || s.height <= 0 {
		return ""
	}
	rows := make([][]span, s.height)
	for _, w := range s.widgets {
		r, ok := w.(Renderer)
		if !ok {
			continue
		}
		pos := w.Position()
		for i, line := range r.Render() {
			y := pos.Top + i
			if y < 0 || y >= s.height || pos.Left >= s.width {
				continue
			}
			width := pos.Width
			if pos.Left+width > s.width {
				width = s.width - pos.Left
			}
			rows[y] = append(rows[y], span{left: pos.Left, width: width, text: line})
		}
	}

	var b strings.Builder
	for y, spans := range rows {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(composeRow(spans, s.width))
	}
	return b.String()
}

// composeRow places spans left to right. Spans starting inside an earlier
// span are skipped.
func composeRow(spans []span, width int) string {
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].left < spans[j].left })
	var b strings.Builder
	x := 0
	for _, sp := range spans {
		if sp.left < x {
			continue
		}
		if sp.left > x {
			b.WriteString(strings.Repeat(" ", sp.left-x))
			x = sp.left
		}
		b.WriteString(fitLine(sp.text, sp.width))
		x += sp.width
	}
	if x < width {
		b.WriteString(strings.Repeat(" ", width-x))
	}
	return b.String()
}

// Factory creates themed widgets. It implements view.Factory.
type Factory struct {
	Theme *CompiledTheme
}

var _ view.Factory = Factory{}

// NewGraph implements view.Factory.
func (f Factory) NewGraph(style view.GraphStyle, pos view.Rect) view.GraphWidget {
	return NewGraph(f.theme(), style, pos)
}

// NewLog implements view.Factory.
func (f Factory) NewLog(style view.LogStyle, pos view.Rect) view.LogWidget {
	return NewLog(f.theme(), style, pos)
}

func (f Factory) theme() *CompiledTheme {
	if f.Theme == nil {
		return DefaultTheme().Compile()
	}
	return f.Theme
}
