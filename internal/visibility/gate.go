// Package visibility tracks which gated views the user has switched on.
package visibility

import "sync"

type View string

const (
	HeartRate             View = "heart_rate"
	Histogram             View = "histogram"
	DifferentialHistogram View = "differential_histogram"
	Scatterplot           View = "scatterplot"
	Trends                View = "trends"
)

// Views lists the gated views in display order.
func Views() []View {
	return []View{HeartRate, Histogram, DifferentialHistogram, Scatterplot, Trends}
}

// Gate holds one flag per view, all off initially.
type Gate struct {
	mu        sync.RWMutex
	visible   map[View]bool
	listeners []func(View, bool)
}

func New() *Gate {
	g := &Gate{visible: make(map[View]bool, len(Views()))}
	for _, v := range Views() {
		g.visible[v] = false
	}
	return g
}

// OnChange registers fn to be called after each flag flip, outside the lock.
func (g *Gate) OnChange(fn func(view View, visible bool)) {
	g.mu.Lock()
	g.listeners = append(g.listeners, fn)
	g.mu.Unlock()
}

func (g *Gate) Toggle(view View) bool {
	g.mu.Lock()
	now := !g.visible[view]
	g.visible[view] = now
	listeners := g.listeners
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(view, now)
	}
	return now
}

func (g *Gate) ShowAll() { g.setAll(true) }

func (g *Gate) HideAll() { g.setAll(false) }

func (g *Gate) setAll(on bool) {
	g.mu.Lock()
	var changed []View
	for _, v := range Views() {
		if g.visible[v] != on {
			g.visible[v] = on
			changed = append(changed, v)
		}
	}
	listeners := g.listeners
	g.mu.Unlock()

	for _, v := range changed {
		for _, fn := range listeners {
			fn(v, on)
		}
	}
}

func (g *Gate) IsVisible(view View) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.visible[view]
}

func (g *Gate) AnyVisible() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, on := range g.visible {
		if on {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of every flag.
func (g *Gate) Snapshot() map[View]bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[View]bool, len(g.visible))
	for v, on := range g.visible {
		out[v] = on
	}
	return out
}
