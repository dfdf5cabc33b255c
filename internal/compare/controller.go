// Package compare holds the draft and applied periods behind a dashboard and
// derives the change between two periods' statistics.
package compare

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/garrettladley/rrdash/internal/period"
)

const (
	PanelPath      = "/panel"
	ComparisonPath = "/panel/comparative-analysis"
)

// URLState is where drafts are mirrored so they survive reloads and can be shared.
type URLState interface {
	Query() url.Values
	Replace(query url.Values)
}

// Slot is one period. Applied changes only on Commit.
type Slot struct {
	Draft   period.TimeRange
	Applied period.TimeRange
}

func (s Slot) Dirty() bool {
	return !s.Draft.Equal(s.Applied)
}

type slotSpec struct {
	name    string
	fromKey string
	toKey   string
	def     func(now time.Time) period.TimeRange
}

var (
	panelSpecs = []slotSpec{
		{name: "period", fromKey: "from", toKey: "to", def: func(now time.Time) period.TimeRange {
			return period.Last(now, 5*time.Minute)
		}},
	}
	pairSpecs = []slotSpec{
		{name: "period1", fromKey: "period1_from", toKey: "period1_to", def: func(now time.Time) period.TimeRange {
			return period.Last(now, 4*time.Hour)
		}},
		{name: "period2", fromKey: "period2_from", toKey: "period2_to", def: func(now time.Time) period.TimeRange {
			return period.Last(now, 4*time.Hour).Shift(-24 * time.Hour)
		}},
	}
)

const (
	Period1 = 0
	Period2 = 1
)

type Mode uint8

const (
	ModePanel Mode = iota
	ModePair
)

func (m Mode) specs() []slotSpec {
	if m == ModePair {
		return pairSpecs
	}
	return panelSpecs
}

// Path is the route a mode's state lives under.
func (m Mode) Path() string {
	if m == ModePair {
		return ComparisonPath
	}
	return PanelPath
}

var ErrUnknownSlot = errors.New("unknown period slot")

type Controller struct {
	url   URLState
	mode  Mode
	specs []slotSpec

	mu    sync.Mutex
	slots []Slot
}

// NewPanel controls a single period under the from/to keys, defaulting to the
// last five minutes.
func NewPanel(state URLState, now time.Time) *Controller {
	return New(state, ModePanel, now)
}

// NewPair controls two periods, defaulting to the last four hours and the
// same four hours a day earlier.
func NewPair(state URLState, now time.Time) *Controller {
	return New(state, ModePair, now)
}

// New seeds drafts and applied periods from state without writing to it.
func New(state URLState, mode Mode, now time.Time) *Controller {
	specs := mode.specs()
	c := &Controller{url: state, mode: mode, specs: specs, slots: make([]Slot, len(specs))}
	for i, r := range FromLocation(state.Query(), mode, now) {
		c.slots[i] = Slot{Draft: r, Applied: r}
	}
	return c
}

// FromLocation reads each period from query. A period whose two bounds do not
// both parse in order falls back to its default as a whole.
func FromLocation(query url.Values, mode Mode, now time.Time) []period.TimeRange {
	specs := mode.specs()
	out := make([]period.TimeRange, len(specs))
	for i, spec := range specs {
		r, err := period.ParseRange(query.Get(spec.fromKey), query.Get(spec.toKey))
		if err != nil {
			r = spec.def(now)
		}
		out[i] = r
	}
	return out
}

func (c *Controller) Len() int { return len(c.slots) }

func (c *Controller) Mode() Mode { return c.mode }

// Keys returns the URL keys slot i is stored under.
func (c *Controller) Keys(i int) (from, to string) {
	if i < 0 || i >= len(c.specs) {
		return "", ""
	}
	return c.specs[i].fromKey, c.specs[i].toKey
}

func (c *Controller) Name(i int) string {
	if i < 0 || i >= len(c.specs) {
		return ""
	}
	return c.specs[i].name
}

func (c *Controller) Slot(i int) Slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.slots) {
		return Slot{}
	}
	return c.slots[i]
}

func (c *Controller) Applied(i int) period.TimeRange { return c.Slot(i).Applied }

func (c *Controller) Draft(i int) period.TimeRange { return c.Slot(i).Draft }

// SetDraft parses user input into slot i's draft. Invalid input leaves every
// slot untouched.
func (c *Controller) SetDraft(i int, from, to string) error {
	r, err := period.ParseRange(from, to)
	if err != nil {
		return err
	}
	return c.SetDraftRange(i, r)
}

func (c *Controller) SetDraftRange(i int, r period.TimeRange) error {
	if r.From.After(r.To) {
		return period.ErrInvertedRange
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.slots) {
		return fmt.Errorf("%w: %d", ErrUnknownSlot, i)
	}
	c.slots[i].Draft = r
	c.syncLocked()
	return nil
}

// syncLocked writes every draft into the URL state, keeping unrelated keys.
func (c *Controller) syncLocked() {
	q := c.url.Query()
	for i, spec := range c.specs {
		q.Set(spec.fromKey, period.FormatISO(c.slots[i].Draft.From))
		q.Set(spec.toKey, period.FormatISO(c.slots[i].Draft.To))
	}
	c.url.Replace(q)
}

// Commit promotes every draft and returns the applied periods.
func (c *Controller) Commit() []period.TimeRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]period.TimeRange, len(c.slots))
	for i := range c.slots {
		c.slots[i].Applied = c.slots[i].Draft
		out[i] = c.slots[i].Applied
	}
	return out
}

func (c *Controller) HasUnappliedChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.slots {
		if s.Dirty() {
			return true
		}
	}
	return false
}
