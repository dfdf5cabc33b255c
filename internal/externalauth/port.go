// Package externalauth receives sign-in payloads from third-party login
// widgets through a narrow, scoped port.
package externalauth

import (
	"sync"

	"github.com/garrettladley/rrdash/internal/client/rr"
)

// Payload is what the Telegram login widget signs and hands back.
type Payload = rr.TelegramAuth

type Handler func(Payload)

// Port accepts one handler at a time. The returned func ends the
// registration; calling it after a newer Register is a no-op.
type Port interface {
	Register(h Handler) (unregister func())
}

type Adapter struct {
	mu      sync.Mutex
	seq     uint64
	owner   uint64
	handler Handler
}

var _ Port = (*Adapter)(nil)

func NewAdapter() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Register(h Handler) func() {
	a.mu.Lock()
	a.seq++
	id := a.seq
	a.owner = id
	a.handler = h
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.owner == id {
			a.owner = 0
			a.handler = nil
		}
	}
}

// Deliver hands p to the registered handler and reports whether there was one.
func (a *Adapter) Deliver(p Payload) bool {
	a.mu.Lock()
	h := a.handler
	a.mu.Unlock()

	if h == nil {
		return false
	}
	h(p)
	return true
}
