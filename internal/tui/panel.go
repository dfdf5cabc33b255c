package tui

import (
	"charm.land/lipgloss/v2"
)

func (m *Model) PanelView() string {
	p := m.deps.Panel
	if p == nil {
		return m.theme.Muted().Render("panel unavailable")
	}

	var (
		slot   = p.Controller.Slot(0)
		states = p.States()
		width  = max(m.viewportWidth-4, 20)
		accent = m.theme.Period(0)
	)

	header := lipgloss.NewStyle().Foreground(accent).Bold(true).Render("Panel") +
		"  " + rangeLine(slot.Applied, slot.Dirty())

	return joinNonEmpty(
		header,
		m.applyLine(PagePanel),
		m.linkLine(PagePanel),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			statsBlock(m.theme, p.Statistics()),
			"    ",
			viewList(m.theme, states),
		),
		"",
		advisories(m.theme, p.Advisories()),
		errorLine(m.theme, m.summary(PagePanel)),
		plots(states, width, accent),
	)
}

func (m *Model) linkLine(page Page) string {
	if m.deps.Link == nil {
		return ""
	}
	link := m.deps.Link(page)
	if link == "" {
		return ""
	}
	return m.theme.Muted().Render(link)
}

// applyLine labels the commit control for page, empty when there is nothing to apply.
func (m *Model) applyLine(page Page) string {
	switch {
	case m.unapplied(page):
		return m.theme.Warn().Render("unapplied changes, press enter to apply")
	case m.pending(page):
		return m.theme.Muted().Render("press enter to load this period")
	}
	return ""
}
