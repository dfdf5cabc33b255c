package auth

import (
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/rrdash/internal/tui/theme"
)

const statusDot = "●"

type Indicator struct {
	Checked       bool
	Authenticated bool
	UserID        string
	Expired       bool
}

func (a Indicator) Render() string {
	switch {
	case !a.Checked:
		return lipgloss.NewStyle().
			Foreground(theme.ColorBgLight).
			Render(statusDot + " checking...")
	case a.Expired:
		return lipgloss.NewStyle().
			Foreground(theme.ColorError).
			Render(statusDot + " session expired")
	case a.Authenticated && a.UserID != "":
		return lipgloss.NewStyle().
			Foreground(theme.ColorOK).
			Render(statusDot + " signed in as " + a.UserID)
	case a.Authenticated:
		return lipgloss.NewStyle().
			Foreground(theme.ColorOK).
			Render(statusDot + " signed in")
	default:
		return lipgloss.NewStyle().
			Foreground(theme.ColorError).
			Render(statusDot + " signed out")
	}
}
