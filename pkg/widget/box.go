package widget

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// fitLine pads or truncates s to exactly width cells. ANSI sequences are
// not counted.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w > width {
		s = lipgloss.NewStyle().MaxWidth(width).Render(s)
		w = lipgloss.Width(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// frame draws body inside a rounded box with title set into the top border.
// The result has exactly height lines of width cells.
func frame(title string, body []string, width, height int, border lipgloss.Color, titleStyle lipgloss.Style, ellipsis string) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	if width < 2 || height < 2 {
		lines := make([]string, height)
		for i := range lines {
			lines[i] = strings.Repeat(" ", width)
		}
		return lines
	}

	b := lipgloss.RoundedBorder()
	bs := lipgloss.NewStyle().Foreground(border)
	inner := width - 2

	top := bs.Render(b.TopLeft)
	if title != "" && inner > 3 {
		t := " " + runewidth.Truncate(title, inner-3, ellipsis) + " "
		top += bs.Render(b.Top) + titleStyle.Render(t)
		if rest := inner - 1 - runewidth.StringWidth(t); rest > 0 {
			top += bs.Render(strings.Repeat(b.Top, rest))
		}
	} else {
		top += bs.Render(strings.Repeat(b.Top, inner))
	}
	top += bs.Render(b.TopRight)

	lines := make([]string, 0, height)
	lines = append(lines, top)
	for i := 0; i < height-2; i++ {
		var s string
		if i < len(body) {
			s = body[i]
		}
		lines = append(lines, bs.Render(b.Left)+fitLine(s, inner)+bs.Render(b.Right))
	}
	lines = append(lines, bs.Render(b.BottomLeft+strings.Repeat(b.Bottom, inner)+b.BottomRight))
	return lines
}
