package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/rrdash/internal/query"
)

func (m *Model) ComparisonView() string {
	c := m.deps.Comparison
	if c == nil {
		return m.theme.Muted().Render("comparison unavailable")
	}

	colWidth := max((m.viewportWidth-8)/2, 20)
	columns := make([]string, 0, c.Controller.Len()*2)
	for i := range c.Controller.Len() {
		var (
			slot   = c.Controller.Slot(i)
			states = c.Queries(i).States()
			accent = m.theme.Period(i)
		)
		col := joinNonEmpty(
			lipgloss.NewStyle().Foreground(accent).Bold(true).Render(c.Controller.Name(i)),
			rangeLine(slot.Applied, slot.Dirty()),
			"",
			statsBlock(m.theme, c.Statistics(i)),
			"",
			viewList(m.theme, states),
			advisories(m.theme, c.Advisories(i)),
			plots(states, colWidth, accent),
		)
		if len(columns) > 0 {
			columns = append(columns, "    ")
		}
		columns = append(columns, lipgloss.NewStyle().Width(colWidth).Render(col))
	}

	return joinNonEmpty(
		m.theme.Title().Render("Comparison"),
		m.applyLine(PageComparison),
		m.linkLine(PageComparison),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
		"",
		m.theme.Title().Render("Period 2 vs period 1"),
		deltaBlock(m.theme, c.Delta()),
		errorLine(m.theme, m.summary(PageComparison)),
	)
}

// summary prefers live state over the last settled load.
func (m *Model) summary(page Page) query.Summary {
	switch {
	case page == PageComparison && m.deps.Comparison != nil:
		return m.deps.Comparison.Summary()
	case page == PagePanel && m.deps.Panel != nil:
		return query.Aggregate(m.deps.Panel.States())
	}
	return m.summaries[page]
}
