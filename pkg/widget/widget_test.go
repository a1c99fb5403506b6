package widget

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/pulse/pkg/series"
	"github.com/dkoosis/pulse/pkg/view"
	"github.com/dkoosis/pulse/pkg/window"
)

func newWindow(t *testing.T, samples []float64) *window.Window {
	t.Helper()
	w := window.New(len(samples))
	for _, v := range samples {
		w.Push(v)
	}
	return w
}

type textTile struct {
	pos   view.Rect
	lines []string
}

func (t *textTile) Position() view.Rect { return t.pos }
func (t *textTile) Render() []string    { return t.lines }

func TestScreen_ComposesTiles_When_SideBySide(t *testing.T) {
	t.Parallel()

	s := NewScreen(10, 2)
	s.Append(&textTile{pos: view.Rect{Left: 0, Top: 0, Width: 4, Height: 2}, lines: []string{"aaaa", "bb"}})
	s.Append(&textTile{pos: view.Rect{Left: 6, Top: 1, Width: 4, Height: 1}, lines: []string{"cccccc"}})

	assert.Equal(t, "aaaa      \nbb    cccc", s.View())
}

func TestScreen_ClipsTiles_When_OutsideScreen(t *testing.T) {
	t.Parallel()

	s := NewScreen(5, 1)
	s.Append(&textTile{pos: view.Rect{Left: 3, Top: 0, Width: 6, Height: 2}, lines: []string{"xxxxxx", "yyyyyy"}})

	assert.Equal(t, "   xx", s.View())
}

func TestScreen_FindsWidget_When_PointInside(t *testing.T) {
	t.Parallel()

	s := NewScreen(20, 10)
	a := &textTile{pos: view.Rect{Width: 10, Height: 10}}
	b := &textTile{pos: view.Rect{Left: 10, Width: 10, Height: 10}}
	s.Append(a)
	s.Append(b)

	got, ok := s.WidgetAt(12, 3)
	require.True(t, ok)
	assert.Same(t, b, got)

	s.Remove(b)
	_, ok = s.WidgetAt(12, 3)
	assert.False(t, ok)
	assert.Len(t, s.Widgets(), 1)
}

func TestFrame_TruncatesTitle_When_TooWide(t *testing.T) {
	t.Parallel()

	theme := DefaultTheme().Compile()
	lines := frame("a very long title indeed", []string{"body"}, 12, 3,
		theme.BorderColor(false), lipgloss.NewStyle(), "…")

	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Equal(t, 12, lipgloss.Width(l))
	}
	assert.Contains(t, lines[0], "…")
	assert.Contains(t, lines[1], "body")
}

func TestFitLine_PadsAndTruncates(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab  ", fitLine("ab", 4))
	assert.Equal(t, 3, lipgloss.Width(fitLine("abcdef", 3)))
	assert.Empty(t, fitLine("abc", 0))
}

func TestGraph_RendersExactSize_When_DataSet(t *testing.T) {
	t.Parallel()

	g := NewGraph(DefaultTheme().Compile(), view.GraphStyle{Label: "cpu", Unit: "%"}, view.Rect{Width: 40, Height: 10})
	high := 4.0
	w := newWindow(t, []float64{1, 3, 2, 8})
	g.SetData(series.Project(w, &high).List())
	g.SetLabel("cpu (8%)")

	lines := g.Render()
	require.Len(t, lines, 10)
	for _, l := range lines {
		assert.Equal(t, 40, lipgloss.Width(l))
	}
	assert.Contains(t, lines[0], "cpu (8%)")
	assert.Len(t, g.Data(), 2)
}

func TestGraph_SkipsNonFinite_When_Drawing(t *testing.T) {
	t.Parallel()

	g := NewGraph(DefaultTheme().Compile(), view.GraphStyle{Label: "x"}, view.Rect{Width: 30, Height: 8})
	g.SetData([]series.Series{{
		Name: series.PrimaryName,
		X:    series.XLabels(4),
		Y:    []float64{math.NaN(), 1, math.Inf(1), 2},
	}})

	var lines []string
	require.NotPanics(t, func() { lines = g.Render() })
	assert.Len(t, lines, 8)
}

func TestGraph_DrawsFrameOnly_When_TooSmall(t *testing.T) {
	t.Parallel()

	g := NewGraph(DefaultTheme().Compile(), view.GraphStyle{Label: "x"}, view.Rect{Width: 4, Height: 3})
	g.SetData([]series.Series{{Name: series.PrimaryName, Y: []float64{1}}})

	lines := g.Render()
	require.Len(t, lines, 3)
	assert.Equal(t, 4, lipgloss.Width(lines[1]))
}

func TestYRange_IncludesZero_When_AllPositive(t *testing.T) {
	t.Parallel()

	lo, hi := yRange([]series.Series{{Y: []float64{5, 9, math.NaN()}}})
	assert.InDelta(t, 0, lo, 1e-9)
	assert.InDelta(t, 9, hi, 1e-9)

	lo, hi = yRange([]series.Series{{Y: []float64{0, 0}}})
	assert.InDelta(t, 0, lo, 1e-9)
	assert.InDelta(t, 1, hi, 1e-9)
}

func numbered(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return lines
}

func TestLog_ReportsScrollPercent_When_UserScrolls(t *testing.T) {
	t.Parallel()

	l := NewLog(DefaultTheme().Compile(), view.LogStyle{Label: "stdout"}, view.Rect{Width: 20, Height: 5})
	var reports []float64
	l.OnScroll(func(p float64) { reports = append(reports, p) })

	l.SetLines(numbered(10), true)
	assert.InDelta(t, 100, l.ScrollPercent(), 1e-9)

	l.ScrollBy(-2)
	l.PageUp()
	l.GotoBottom()

	require.Len(t, reports, 3)
	assert.Less(t, reports[0], 100.0)
	assert.Less(t, reports[1], reports[0])
	assert.InDelta(t, 100, reports[2], 1e-9)
}

func TestLog_KeepsOffset_When_NotFollowing(t *testing.T) {
	t.Parallel()

	l := NewLog(DefaultTheme().Compile(), view.LogStyle{Label: "stdout"}, view.Rect{Width: 20, Height: 5})
	l.SetLines(numbered(10), true)
	l.GotoTop()

	l.SetLines(numbered(12), false)

	assert.InDelta(t, 0, l.ScrollPercent(), 1e-9)
	assert.False(t, l.Following())
	assert.Equal(t, 12, l.LineCount())

	lines := l.Render()
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "stdout")
	assert.Contains(t, lines[1], "line 0")
}

func TestLog_ShowsNewest_When_Following(t *testing.T) {
	t.Parallel()

	l := NewLog(DefaultTheme().Compile(), view.LogStyle{Label: "out"}, view.Rect{Width: 20, Height: 4})
	l.SetLines(numbered(6), true)

	body := strings.Join(l.Render(), "\n")
	assert.Contains(t, body, "line 5")
	assert.NotContains(t, body, "line 0")
}

func TestFactory_UsesDefaultTheme_When_Unset(t *testing.T) {
	t.Parallel()

	f := Factory{}
	g := f.NewGraph(view.GraphStyle{Label: "g"}, view.Rect{Width: 10, Height: 5})
	l := f.NewLog(view.LogStyle{Label: "l"}, view.Rect{Width: 10, Height: 5})

	assert.IsType(t, &Graph{}, g)
	assert.IsType(t, &Log{}, l)
}

func TestGraph_UsesThemeStyles_When_ViewSetsNoColor(t *testing.T) {
	t.Parallel()

	theme := (&Theme{Colors: Colors{Primary: "#010203", HighWater: "#0A0B0C"}}).Compile()
	g := NewGraph(theme, view.GraphStyle{Label: "cpu"}, view.Rect{Width: 30, Height: 8})

	assert.Equal(t, theme.LineStyle.GetForeground(), g.seriesStyle("cpu").GetForeground())
	assert.Equal(t, lipgloss.Color("#0A0B0C"), g.seriesStyle(series.HighWaterName).GetForeground())
}

func TestGraph_PrefersViewColors_When_Set(t *testing.T) {
	t.Parallel()

	style := view.GraphStyle{Label: "cpu", Color: "#112233", HighWaterColor: "#445566"}
	g := NewGraph(DefaultTheme().Compile(), style, view.Rect{Width: 30, Height: 8})

	assert.Equal(t, lipgloss.Color("#112233"), g.seriesStyle("cpu").GetForeground())
	assert.Equal(t, lipgloss.Color("#445566"), g.seriesStyle(series.HighWaterName).GetForeground())
}

func TestLog_MarksTitle_When_FollowingOrScrolled(t *testing.T) {
	t.Parallel()

	theme := (&Theme{Icons: Icons{Follow: "F", Scrolled: "S"}}).Compile()
	l := NewLog(theme, view.LogStyle{Label: "out"}, view.Rect{Width: 20, Height: 4})
	l.SetLines(numbered(10), true)
	assert.Contains(t, l.Render()[0], "out F")

	l.ScrollBy(-3)
	assert.Contains(t, l.Render()[0], "out S")
}

func TestLog_RestoresOffset_When_Set(t *testing.T) {
	t.Parallel()

	l := NewLog(DefaultTheme().Compile(), view.LogStyle{Label: "out"}, view.Rect{Width: 20, Height: 5})
	var reports int
	l.OnScroll(func(float64) { reports++ })
	l.SetLines(numbered(30), false)

	l.SetOffset(12)

	assert.Equal(t, 12, l.Offset())
	assert.Zero(t, reports)
	assert.Contains(t, l.Render()[1], "line 12")

	l.SetOffset(500)
	assert.Equal(t, 27, l.Offset())
}
