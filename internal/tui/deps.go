package tui

import (
	"context"
	"log/slog"

	"github.com/garrettladley/rrdash/internal/dashboard"
)

// SessionReader is the part of the session store the status bar needs.
type SessionReader interface {
	IsAuthenticated() bool
	CurrentUserID() (string, bool)
}

type Deps struct {
	Ctx        context.Context
	Cancel     context.CancelFunc
	Logger     *slog.Logger
	Session    SessionReader
	Panel      *dashboard.Panel
	Comparison *dashboard.Comparison
	Events     *Events
	// Link returns the shareable URL of the current page, if any.
	Link func(Page) string
}
