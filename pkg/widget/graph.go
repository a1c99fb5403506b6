package widget

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/pulse/pkg/series"
	"github.com/dkoosis/pulse/pkg/view"
)

// epoch anchors the synthetic sample times; sample i is drawn at epoch+i s.
var epoch = time.Unix(0, 0)

// Graph is a bordered line chart of one or more series.
type Graph struct {
	theme *CompiledTheme
	style view.GraphStyle
	pos   view.Rect
	label string
	data  []series.Series
}

var _ view.GraphWidget = (*Graph)(nil)

// NewGraph creates an empty graph at pos.
func NewGraph(theme *CompiledTheme, style view.GraphStyle, pos view.Rect) *Graph {
	return &Graph{theme: theme, style: style, pos: pos, label: style.Label}
}

// Position implements view.Widget.
func (g *Graph) Position() view.Rect { return g.pos }

// SetLabel implements view.GraphWidget.
func (g *Graph) SetLabel(text string) { g.label = text }

// SetData implements view.GraphWidget.
func (g *Graph) SetData(list []series.Series) {
	g.data = append(g.data[:0], list...)
}

// Label returns the current title.
func (g *Graph) Label() string { return g.label }

// Data returns the series last set.
func (g *Graph) Data() []series.Series { return g.data }

// Render draws the graph to exactly pos.Height lines.
func (g *Graph) Render() []string {
	return frame(g.label, g.chart(g.pos.Width-2, g.pos.Height-2), g.pos.Width, g.pos.Height,
		g.theme.BorderColor(false), g.theme.TitleStyle, g.theme.Icons.Ellipsis)
}

func (g *Graph) chart(width, height int) []string {
	if width < 4 || height < 2 || len(g.data) == 0 {
		return nil
	}
	n := len(g.data[0].Y)
	if n == 0 {
		return nil
	}
	lo, hi := yRange(g.data)
	span := n - 1
	if span < 1 {
		span = 1
	}

	chart := timeserieslinechart.New(width, height,
		timeserieslinechart.WithTimeRange(epoch, epoch.Add(time.Duration(span)*time.Second)),
		timeserieslinechart.WithYRange(lo, hi),
		timeserieslinechart.WithAxesStyles(g.theme.AxisStyle, g.theme.LabelStyle),
		timeserieslinechart.WithStyle(g.lineStyle()),
		timeserieslinechart.WithXLabelFormatter(func(_ int, v float64) string {
			// x labels count samples back from the newest.
			return strconv.Itoa(n - 1 - int(math.Round(v-float64(epoch.Unix()))))
		}),
		timeserieslinechart.WithYLabelFormatter(func(_ int, v float64) string {
			return series.FormatValue(math.Round(v*10)/10) + g.style.Unit
		}),
		timeserieslinechart.WithXYSteps(2, 2),
	)
	for _, s := range g.data {
		chart.SetDataSetStyle(s.Name, g.seriesStyle(s.Name))
		for i, v := range s.Y {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			chart.PushDataSet(s.Name, timeserieslinechart.TimePoint{
				Time:  epoch.Add(time.Duration(i) * time.Second),
				Value: v,
			})
		}
	}
	chart.DrawBrailleAll()
	return strings.Split(chart.View(), "\n")
}

// lineStyle is the theme's line style unless the view sets its own colour.
func (g *Graph) lineStyle() lipgloss.Style {
	if g.style.Color == "" {
		return g.theme.LineStyle
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(g.style.Color))
}

func (g *Graph) seriesStyle(name string) lipgloss.Style {
	if name != series.HighWaterName {
		return g.lineStyle()
	}
	if g.style.HighWaterColor == "" {
		return g.theme.HighWaterStyle
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(g.style.HighWaterColor))
}

// yRange spans every finite value and always includes zero.
func yRange(list []series.Series) (lo, hi float64) {
	for _, s := range list {
		for _, v := range s.Y {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo < 1 {
		hi = lo + 1
	}
	return lo, hi
}
