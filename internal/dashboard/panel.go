package dashboard

import (
	"context"
	"time"

	"github.com/garrettladley/rrdash/internal/client/rr"
	"github.com/garrettladley/rrdash/internal/compare"
	"github.com/garrettladley/rrdash/internal/period"
	"github.com/garrettladley/rrdash/internal/query"
	"github.com/garrettladley/rrdash/internal/visibility"
)

// Panel analyses a single period.
type Panel struct {
	Gate       *visibility.Gate
	Controller *compare.Controller
	Queries    *query.Orchestrator

	rules period.Rules
}

// NewPanel seeds the period from state. Nothing is fetched until Apply.
func NewPanel(api API, state compare.URLState, gate *visibility.Gate, now time.Time, opts ...Option) *Panel {
	cfg := newConfig(opts)
	ctrl := compare.NewPanel(state, now)
	orch := query.New(gate, cfg.rules, panelViews(api), cfg.orchestratorOptions(0)...)
	orch.Commit(ctrl.Applied(0))

	return &Panel{Gate: gate, Controller: ctrl, Queries: orch, rules: cfg.rules}
}

// SetDraft edits the period. Fetching pauses until Apply.
func (p *Panel) SetDraft(from, to string) error {
	if err := p.Controller.SetDraft(0, from, to); err != nil {
		return err
	}
	p.Queries.Disarm()
	return nil
}

func (p *Panel) SetDraftRange(r period.TimeRange) error {
	if err := p.Controller.SetDraftRange(0, r); err != nil {
		return err
	}
	p.Queries.Disarm()
	return nil
}

// Apply commits the draft and fetches every eligible view.
func (p *Panel) Apply(ctx context.Context) query.Summary {
	applied := p.Controller.Commit()
	p.Queries.Commit(applied[0])
	p.Queries.Arm()
	return p.Queries.Dispatch(ctx)
}

// Pending reports whether Apply would change anything: the period was never
// committed, or a draft differs from what is applied.
func (p *Panel) Pending() bool {
	return !p.Queries.Armed() || p.Controller.HasUnappliedChanges()
}

// Load fetches whatever is eligible and not yet current. It is a no-op
// before the first Apply.
func (p *Panel) Load(ctx context.Context) query.Summary {
	return p.Queries.Dispatch(ctx)
}

func (p *Panel) Refresh(ctx context.Context) query.Summary {
	return p.Queries.Refetch(ctx)
}

func (p *Panel) States() []query.State {
	return p.Queries.States()
}

func (p *Panel) Statistics() *rr.Statistics {
	return statistics(p.Queries)
}

// Advisories returns soft warnings for the visible views that have them.
func (p *Panel) Advisories() []period.Advisory {
	return advise(p.Gate, p.rules, p.Controller.Applied(0), true)
}

func advise(gate *visibility.Gate, rules period.Rules, r period.TimeRange, heartRate bool) []period.Advisory {
	var kinds []period.Kind
	if heartRate && gate.IsVisible(visibility.HeartRate) {
		kinds = append(kinds, period.KindDetailedHeartRate)
	}
	if gate.IsVisible(visibility.Trends) {
		kinds = append(kinds, period.KindTrends)
	}
	return period.Advise(r, rules, kinds...)
}
