package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/garrettladley/rrdash/internal/query"
)

func checkAuthCmd(session SessionReader) tea.Cmd {
	if session == nil {
		return nil
	}
	return func() tea.Msg {
		id, _ := session.CurrentUserID()
		return AuthStatusMsg{Authenticated: session.IsAuthenticated(), UserID: id}
	}
}

// loadCmd runs a blocking dashboard operation off the update loop.
func loadCmd(ctx context.Context, page Page, run func(context.Context) query.Summary) tea.Cmd {
	return func() tea.Msg {
		return LoadedMsg{Page: page, Summary: run(ctx)}
	}
}
