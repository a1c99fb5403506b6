// Package widget draws dashboard views on a terminal with lipgloss,
// ntcharts and the bubbles viewport.
package widget

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the visual styling of the dashboard. It is loaded from the
// theme section of the config file.
type Theme struct {
	Colors Colors `yaml:"colors"`
	Icons  Icons  `yaml:"icons"`
}

// Colors defines the dashboard palette.
type Colors struct {
	Primary   string `yaml:"primary"`    // graph lines, focused borders
	HighWater string `yaml:"high_water"` // high-water reference line
	Warning   string `yaml:"warning"`    // scrolled indicator
	Muted     string `yaml:"muted"`      // axes, status bar
	Text      string `yaml:"text"`       // log text, labels
	Border    string `yaml:"border"`     // unfocused borders
}

// Icons defines the markers used in titles and the status bar.
type Icons struct {
	Scrolled string `yaml:"scrolled"`
	Follow   string `yaml:"follow"`
	Ellipsis string `yaml:"ellipsis"`
}

// CompiledTheme holds pre-built lipgloss styles from a Theme.
type CompiledTheme struct {
	colorPrimary   lipgloss.Color
	colorHighWater lipgloss.Color
	colorWarning   lipgloss.Color
	colorMuted     lipgloss.Color
	colorText      lipgloss.Color
	colorBorder    lipgloss.Color

	TitleStyle     lipgloss.Style
	LineStyle      lipgloss.Style
	HighWaterStyle lipgloss.Style
	AxisStyle      lipgloss.Style
	LabelStyle     lipgloss.Style
	TextStyle      lipgloss.Style
	StatusBarStyle lipgloss.Style
	ScrolledStyle  lipgloss.Style

	Icons Icons
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() *Theme {
	return &Theme{
		Colors: Colors{
			Primary:   "#7D56F4", // Purple
			HighWater: "#FF5F56", // Red
			Warning:   "#FFBD2E", // Yellow/Orange
			Muted:     "#626262", // Gray
			Text:      "#CCCCCC", // Light gray
			Border:    "#444444", // Dark gray
		},
		Icons: Icons{
			Scrolled: "\u2191", // ↑
			Follow:   "\u2193", // ↓
			Ellipsis: "\u2026", // …
		},
	}
}

// Compile builds lipgloss styles from the theme. Empty fields fall back to
// the defaults.
func (t *Theme) Compile() *CompiledTheme {
	d := DefaultTheme()
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	ct := &CompiledTheme{
		colorPrimary:   lipgloss.Color(pick(t.Colors.Primary, d.Colors.Primary)),
		colorHighWater: lipgloss.Color(pick(t.Colors.HighWater, d.Colors.HighWater)),
		colorWarning:   lipgloss.Color(pick(t.Colors.Warning, d.Colors.Warning)),
		colorMuted:     lipgloss.Color(pick(t.Colors.Muted, d.Colors.Muted)),
		colorText:      lipgloss.Color(pick(t.Colors.Text, d.Colors.Text)),
		colorBorder:    lipgloss.Color(pick(t.Colors.Border, d.Colors.Border)),
		Icons: Icons{
			Scrolled: pick(t.Icons.Scrolled, d.Icons.Scrolled),
			Follow:   pick(t.Icons.Follow, d.Icons.Follow),
			Ellipsis: pick(t.Icons.Ellipsis, d.Icons.Ellipsis),
		},
	}

	ct.TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ct.colorText)
	ct.LineStyle = lipgloss.NewStyle().Foreground(ct.colorPrimary)
	ct.HighWaterStyle = lipgloss.NewStyle().Foreground(ct.colorHighWater)
	ct.AxisStyle = lipgloss.NewStyle().Foreground(ct.colorMuted)
	ct.LabelStyle = lipgloss.NewStyle().Foreground(ct.colorMuted)
	ct.TextStyle = lipgloss.NewStyle().Foreground(ct.colorText)
	ct.StatusBarStyle = lipgloss.NewStyle().Foreground(ct.colorMuted)
	ct.ScrolledStyle = lipgloss.NewStyle().Foreground(ct.colorWarning).Bold(true)
	return ct
}

// BorderColor returns the border colour for a focused or unfocused box.
func (ct *CompiledTheme) BorderColor(focused bool) lipgloss.Color {
	if focused {
		return ct.colorPrimary
	}
	return ct.colorBorder
}

// colorOr returns a lipgloss colour for c, or fallback when c is empty.
func colorOr(c string, fallback lipgloss.Color) lipgloss.Color {
	if c == "" {
		return fallback
	}
	return lipgloss.Color(c)
}
