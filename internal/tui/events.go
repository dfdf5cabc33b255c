package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/garrettladley/rrdash/internal/query"
)

const eventBuffer = 64

// Events bridges callbacks fired on fetch goroutines into the program. View
// updates are dropped when the buffer is full since the next render reads
// current state anyway; a pending expiry is never lost.
type Events struct {
	updates chan tea.Msg
	expired chan struct{}
}

func NewEvents() *Events {
	return &Events{
		updates: make(chan tea.Msg, eventBuffer),
		expired: make(chan struct{}, 1),
	}
}

// OnUpdate returns a callback for dashboard.WithOnUpdate.
func (e *Events) OnUpdate(page Page) func(slot int, st query.State) {
	return func(slot int, st query.State) {
		select {
		case e.updates <- ViewUpdatedMsg{Page: page, Slot: slot, State: st}:
		default:
		}
	}
}

// NavigateToLogin is called by the transport when the session cannot be renewed.
func (e *Events) NavigateToLogin() {
	select {
	case e.expired <- struct{}{}:
	default:
	}
}

// listenCmd waits for the next event. Re-issue it after each message.
func listenCmd(ctx context.Context, e *Events) tea.Cmd {
	if e == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-e.expired:
			return SessionExpiredMsg{}
		case msg := <-e.updates:
			return msg
		case <-ctx.Done():
			return eventsClosedMsg{}
		}
	}
}
