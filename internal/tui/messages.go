package tui

import (
	"time"

	"github.com/garrettladley/rrdash/internal/query"
)

const splashDuration = 1500 * time.Millisecond

type SplashTickMsg struct{}

type AuthStatusMsg struct {
	Authenticated bool
	UserID        string
}

// ViewUpdatedMsg reports a state change of one view. Slot is 0 on the panel.
type ViewUpdatedMsg struct {
	Page  Page
	Slot  int
	State query.State
}

// LoadedMsg is sent when a dispatch started by the model has settled.
type LoadedMsg struct {
	Page    Page
	Summary query.Summary
}

type SessionExpiredMsg struct{}

type eventsClosedMsg struct{}
