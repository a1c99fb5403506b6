package widget

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/dkoosis/pulse/pkg/view"
)

// Log is a bordered, scrollable list of lines.
type Log struct {
	theme    *CompiledTheme
	style    view.LogStyle
	pos      view.Rect
	vp       viewport.Model
	lines    int
	follow   bool
	focused  bool
	onScroll func(percent float64)
}

var _ view.LogWidget = (*Log)(nil)

// NewLog creates an empty log at pos.
func NewLog(theme *CompiledTheme, style view.LogStyle, pos view.Rect) *Log {
	w, h := pos.Width-2, pos.Height-2
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	vp := viewport.New(w, h)
	vp.Style = theme.TextStyle
	return &Log{theme: theme, style: style, pos: pos, vp: vp, follow: true}
}

// Position implements view.Widget.
func (l *Log) Position() view.Rect { return l.pos }

// SetLines implements view.LogWidget.
func (l *Log) SetLines(lines []string, follow bool) {
	l.lines = len(lines)
	l.follow = follow
	l.vp.SetContent(strings.Join(lines, "\n"))
	if follow {
		l.vp.GotoBottom()
	}
}

// OnScroll implements view.LogWidget.
func (l *Log) OnScroll(fn func(percent float64)) { l.onScroll = fn }

// Offset implements view.LogWidget.
func (l *Log) Offset() int { return l.vp.YOffset }

// SetOffset implements view.LogWidget. The offset is clamped to the content
// and no scroll is reported.
func (l *Log) SetOffset(n int) { l.vp.SetYOffset(n) }

// ScrollBy moves the viewport n lines; negative n scrolls up.
func (l *Log) ScrollBy(n int) {
	l.vp.SetYOffset(l.vp.YOffset + n)
	l.notify()
}

// PageUp scrolls one screen up.
func (l *Log) PageUp() { l.ScrollBy(-l.vp.Height) }

// PageDown scrolls one screen down.
func (l *Log) PageDown() { l.ScrollBy(l.vp.Height) }

// GotoTop scrolls to the oldest line.
func (l *Log) GotoTop() {
	l.vp.GotoTop()
	l.notify()
}

// GotoBottom scrolls to the newest line.
func (l *Log) GotoBottom() {
	l.vp.GotoBottom()
	l.notify()
}

// ScrollPercent returns the scroll position in percent; 100 is the bottom.
func (l *Log) ScrollPercent() float64 { return l.vp.ScrollPercent() * 100 }

func (l *Log) notify() {
	if l.onScroll != nil {
		l.onScroll(l.ScrollPercent())
	}
}

// SetFocused highlights the border.
func (l *Log) SetFocused(focused bool) { l.focused = focused }

// Focused reports whether the log has keyboard focus.
func (l *Log) Focused() bool { return l.focused }

// Following reports whether the last update pinned the view to the bottom.
func (l *Log) Following() bool { return l.follow }

// Label returns the title.
func (l *Log) Label() string { return l.style.Label }

// LineCount returns the number of lines shown.
func (l *Log) LineCount() int { return l.lines }

// Render draws the log to exactly pos.Height lines.
func (l *Log) Render() []string {
	title := l.style.Label + " " + l.theme.Icons.Follow
	if l.ScrollPercent() < 100 {
		title = l.style.Label + " " + l.theme.Icons.Scrolled
	}
	var body []string
	if l.vp.Height > 0 {
		body = strings.Split(l.vp.View(), "\n")
	}
	border := l.theme.BorderColor(l.focused)
	if !l.focused {
		border = colorOr(l.style.Color, border)
	}
	return frame(title, body, l.pos.Width, l.pos.Height, border, l.theme.TitleStyle, l.theme.Icons.Ellipsis)
}
