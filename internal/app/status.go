package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const statusSeparator = " │ "

// statusBar renders the single bottom line: layout, focused log, source
// state and a short key hint.
func (m Model) statusBar() string {
	names := m.cfg.LayoutNames()
	pos := 0
	for i, n := range names {
		if n == m.set.Name() {
			pos = i + 1
		}
	}
	parts := []string{fmt.Sprintf("pulse · %s [%d/%d]", m.set.Name(), pos, len(names))}

	if st, ok := m.focusedStream(); ok {
		log := st.log
		s := m.printer.Sprintf("%s: %d lines", log.Label(), log.LineCount())
		if n := st.view.Buffer().Evicted(); n > 0 {
			s += m.printer.Sprintf(" (%d dropped)", n)
		}
		if log.ScrollPercent() < 100 {
			s += " " + m.theme.ScrolledStyle.Render(m.theme.Icons.Scrolled+" scrolled")
		}
		parts = append(parts, s)
	}
	if len(m.sources) > 0 && m.live == 0 {
		parts = append(parts, "sources finished")
	}
	if m.viewErrs > 0 {
		parts = append(parts, m.theme.ScrolledStyle.Render(m.printer.Sprintf("%d view errors (see log)", m.viewErrs)))
	}
	if m.reloadErr != nil {
		parts = append(parts, m.theme.ScrolledStyle.Render("config: "+m.reloadErr.Error()))
	}

	m.help.ShowAll = false
	line := strings.Join(parts, statusSeparator)
	if hint := m.help.View(m.keys); hint != "" {
		line += statusSeparator + hint
	}
	return m.theme.StatusBarStyle.Render(lipgloss.NewStyle().MaxWidth(m.width).Render(line))
}
