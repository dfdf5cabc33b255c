// Package query decides which analytic views to fetch for the applied period
// and keeps their results consistent with the latest request.
package query

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/rrdash/internal/period"
	"github.com/garrettladley/rrdash/internal/visibility"
	"github.com/garrettladley/rrdash/internal/xslog"
)

type FetchFunc func(ctx context.Context, r period.TimeRange) (any, error)

type View struct {
	Name  string
	Kind  period.Kind
	Gated bool
	Fetch FetchFunc
	// Empty reports a successful response that has nothing to show.
	Empty func(data any) bool
}

// requestKey identifies one dispatch. A result is applied only while its key
// is still the view's current key.
type requestKey struct {
	seq uint64
	r   period.TimeRange
}

type slot struct {
	view View

	key      requestKey
	cancel   context.CancelFunc
	inFlight bool

	data      any
	hasData   bool
	dataRange period.TimeRange
	err       error
}

type Orchestrator struct {
	gate     *visibility.Gate
	rules    period.Rules
	logger   *slog.Logger
	limit    int
	onUpdate func(State)

	mu      sync.Mutex
	armed   bool
	applied period.TimeRange
	seq     uint64
	order   []string
	slots   map[string]*slot
}

type Option func(*Orchestrator)

// WithLogger fixes the logger. Without it dispatches log through the logger
// carried by their context.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithLimit bounds how many fetches run at once.
func WithLimit(n int) Option {
	return func(o *Orchestrator) { o.limit = n }
}

// WithOnUpdate is called, outside any lock, whenever a view's state changes.
func WithOnUpdate(fn func(State)) Option {
	return func(o *Orchestrator) { o.onUpdate = fn }
}

// New registers views in display order. Gated views consult gate; hiding one
// cancels its in-flight request. The orchestrator starts disarmed.
func New(gate *visibility.Gate, rules period.Rules, views []View, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gate:  gate,
		rules: rules,
		limit: 4,
		slots: make(map[string]*slot, len(views)),
	}
	for _, opt := range opts {
		opt(o)
	}
	for _, v := range views {
		o.order = append(o.order, v.Name)
		o.slots[v.Name] = &slot{view: v}
	}
	if gate != nil {
		gate.OnChange(o.visibilityChanged)
	}
	return o
}

func (o *Orchestrator) log(ctx context.Context) *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return xslog.FromContext(ctx)
}

func (o *Orchestrator) Arm() {
	o.mu.Lock()
	o.armed = true
	o.mu.Unlock()
}

// Disarm blocks new dispatches. Requests already in flight are left alone.
func (o *Orchestrator) Disarm() {
	o.mu.Lock()
	o.armed = false
	o.mu.Unlock()
}

func (o *Orchestrator) Armed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.armed
}

// Commit sets the applied period. In-flight requests for any other period
// are canceled and their results will be discarded.
func (o *Orchestrator) Commit(r period.TimeRange) {
	o.mu.Lock()
	o.applied = r
	for _, name := range o.order {
		s := o.slots[name]
		if s.inFlight && !s.key.r.Equal(r) {
			o.abandonLocked(context.Background(), s, "period changed")
		}
	}
	o.mu.Unlock()
}

func (o *Orchestrator) Applied() period.TimeRange {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.applied
}

func (o *Orchestrator) ShouldDispatch(name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.slots[name]
	return ok && o.eligibleLocked(s)
}

func (o *Orchestrator) eligibleLocked(s *slot) bool {
	if !o.armed {
		return false
	}
	if s.view.Gated && !o.visible(s.view.Name) {
		return false
	}
	return period.Validate(o.applied, s.view.Kind, o.rules).Valid
}

func (o *Orchestrator) visible(name string) bool {
	return o.gate != nil && o.gate.IsVisible(visibility.View(name))
}

// Dispatch fetches every eligible view that has no current result for the
// applied period, then waits for them and returns the aggregate.
func (o *Orchestrator) Dispatch(ctx context.Context) Summary {
	return o.run(ctx, false)
}

// Refetch re-runs every eligible view while keeping previous data on screen.
func (o *Orchestrator) Refetch(ctx context.Context) Summary {
	return o.run(ctx, true)
}

type job struct {
	name  string
	kind  period.Kind
	key   requestKey
	ctx   context.Context
	fetch FetchFunc
}

func (o *Orchestrator) run(ctx context.Context, force bool) Summary {
	o.mu.Lock()
	var jobs []job
	for _, name := range o.order {
		s := o.slots[name]
		if !o.eligibleLocked(s) {
			continue
		}
		if !force && o.currentLocked(s) {
			continue
		}
		if s.inFlight {
			o.abandonLocked(ctx, s, "superseded")
		}
		if !force && !s.dataRange.Equal(o.applied) {
			s.data, s.hasData = nil, false
		}
		o.seq++
		s.key = requestKey{seq: o.seq, r: o.applied}
		jctx, cancel := context.WithCancel(ctx)
		s.cancel = cancel
		s.inFlight = true
		s.err = nil
		jobs = append(jobs, job{name: name, kind: s.view.Kind, key: s.key, ctx: jctx, fetch: s.view.Fetch})
	}
	o.mu.Unlock()

	if len(jobs) > 0 {
		r := jobs[0].key.r
		o.log(ctx).DebugContext(ctx, "dispatching views", xslog.Count(len(jobs)), xslog.From(r.From), xslog.To(r.To))
	}

	for _, j := range jobs {
		o.notify(j.name)
	}

	var g errgroup.Group
	if o.limit > 0 {
		g.SetLimit(o.limit)
	}
	for _, j := range jobs {
		g.Go(func() error {
			o.log(j.ctx).DebugContext(j.ctx, "dispatching view",
				xslog.View(j.name), xslog.Kind(string(j.kind)), xslog.Seq(j.key.seq))
			data, err := j.fetch(j.ctx, j.key.r)
			o.finish(j.ctx, j.name, j.key, data, err)
			// failures live in view state; siblings keep running
			return nil
		})
	}
	_ = g.Wait()

	return Aggregate(o.States())
}

// currentLocked reports a result, or a request, that already matches the applied period.
func (o *Orchestrator) currentLocked(s *slot) bool {
	if s.inFlight {
		return s.key.r.Equal(o.applied)
	}
	return s.hasData && s.err == nil && s.dataRange.Equal(o.applied)
}

func (o *Orchestrator) abandonLocked(ctx context.Context, s *slot, reason string) {
	if s.cancel != nil {
		s.cancel()
	}
	o.log(ctx).DebugContext(ctx, "abandoning request", xslog.View(s.view.Name), xslog.Seq(s.key.seq), slog.String("reason", reason))
	s.cancel = nil
	s.inFlight = false
	s.key = requestKey{}
}

func (o *Orchestrator) finish(ctx context.Context, name string, key requestKey, data any, err error) {
	o.mu.Lock()
	s := o.slots[name]
	if s.key != key {
		o.mu.Unlock()
		o.log(ctx).DebugContext(ctx, "discarding stale result", xslog.View(name), xslog.Seq(key.seq))
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.inFlight = false
	if err != nil {
		s.err = err
	} else {
		s.data = data
		s.hasData = true
		s.dataRange = key.r
		s.err = nil
	}
	o.mu.Unlock()

	st := o.State(name)
	if err != nil {
		o.log(ctx).WarnContext(ctx, "view fetch failed", xslog.View(name), xslog.Status(st.Status.String()), xslog.Error(err))
	}
	if o.onUpdate != nil {
		o.onUpdate(st)
	}
}

func (o *Orchestrator) visibilityChanged(view visibility.View, visible bool) {
	if visible {
		return
	}
	o.mu.Lock()
	s, ok := o.slots[string(view)]
	hidden := ok && s.view.Gated && s.inFlight
	if hidden {
		o.abandonLocked(context.Background(), s, "hidden")
	}
	o.mu.Unlock()

	if hidden {
		o.notify(string(view))
	}
}

func (o *Orchestrator) notify(name string) {
	if o.onUpdate == nil {
		return
	}
	o.onUpdate(o.State(name))
}

// State returns the state of one view. Unknown names report Idle.
func (o *Orchestrator) State(name string) State {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.slots[name]
	if !ok {
		return State{View: name}
	}
	return o.stateLocked(s)
}

// States returns every view's state in registration order.
func (o *Orchestrator) States() []State {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]State, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, o.stateLocked(o.slots[name]))
	}
	return out
}

func (o *Orchestrator) stateLocked(s *slot) State {
	st := State{
		View:     s.view.Name,
		Data:     s.data,
		Err:      s.err,
		HasData:  s.hasData,
		InFlight: s.inFlight,
	}

	if s.view.Gated && !o.visible(s.view.Name) {
		st.Status = StatusHidden
		return st
	}
	if v := period.Validate(o.applied, s.view.Kind, o.rules); !v.Valid {
		st.Status = StatusInvalid
		st.Message = v.Message
		return st
	}

	switch {
	case s.err != nil && !s.inFlight:
		st.Status = StatusError
	case s.inFlight && !s.hasData:
		st.Status = StatusLoading
	case !s.hasData:
		st.Status = StatusIdle
	case s.view.Empty != nil && s.view.Empty(s.data):
		st.Status = StatusNoData
	default:
		st.Status = StatusSuccess
	}
	return st
}
