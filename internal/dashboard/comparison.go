package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/rrdash/internal/client/rr"
	"github.com/garrettladley/rrdash/internal/compare"
	"github.com/garrettladley/rrdash/internal/period"
	"github.com/garrettladley/rrdash/internal/query"
	"github.com/garrettladley/rrdash/internal/visibility"
)

// Comparison analyses two periods side by side. Both periods share one
// visibility gate; statistics are always fetched.
type Comparison struct {
	Gate       *visibility.Gate
	Controller *compare.Controller

	periods [2]*query.Orchestrator
	rules   period.Rules
}

// NewComparison seeds both periods from state. Nothing is fetched until Apply.
func NewComparison(api API, state compare.URLState, gate *visibility.Gate, now time.Time, opts ...Option) *Comparison {
	cfg := newConfig(opts)
	ctrl := compare.NewPair(state, now)

	c := &Comparison{Gate: gate, Controller: ctrl, rules: cfg.rules}
	for i := range c.periods {
		o := query.New(gate, cfg.rules, comparisonViews(api), cfg.orchestratorOptions(i)...)
		o.Commit(ctrl.Applied(i))
		c.periods[i] = o
	}
	return c
}

func (c *Comparison) Queries(slot int) *query.Orchestrator {
	return c.periods[slot]
}

func (c *Comparison) SetDraft(slot int, from, to string) error {
	if err := c.Controller.SetDraft(slot, from, to); err != nil {
		return err
	}
	c.disarm()
	return nil
}

func (c *Comparison) SetDraftRange(slot int, r period.TimeRange) error {
	if err := c.Controller.SetDraftRange(slot, r); err != nil {
		return err
	}
	c.disarm()
	return nil
}

func (c *Comparison) disarm() {
	for _, o := range c.periods {
		o.Disarm()
	}
}

// Apply commits both drafts and fetches both periods concurrently.
func (c *Comparison) Apply(ctx context.Context) query.Summary {
	applied := c.Controller.Commit()
	for i, o := range c.periods {
		o.Commit(applied[i])
		o.Arm()
	}
	return c.each(ctx, (*query.Orchestrator).Dispatch)
}

func (c *Comparison) Pending() bool {
	for _, o := range c.periods {
		if !o.Armed() {
			return true
		}
	}
	return c.Controller.HasUnappliedChanges()
}

func (c *Comparison) Load(ctx context.Context) query.Summary {
	return c.each(ctx, (*query.Orchestrator).Dispatch)
}

func (c *Comparison) Refresh(ctx context.Context) query.Summary {
	return c.each(ctx, (*query.Orchestrator).Refetch)
}

func (c *Comparison) each(ctx context.Context, run func(*query.Orchestrator, context.Context) query.Summary) query.Summary {
	var g errgroup.Group
	for _, o := range c.periods {
		g.Go(func() error {
			run(o, ctx)
			return nil
		})
	}
	_ = g.Wait()
	return c.Summary()
}

// Summary merges both periods, period 1 first.
func (c *Comparison) Summary() query.Summary {
	var states []query.State
	for _, o := range c.periods {
		states = append(states, o.States()...)
	}
	return query.Aggregate(states)
}

func (c *Comparison) Statistics(slot int) *rr.Statistics {
	return statistics(c.periods[slot])
}

// Delta is nil until both periods' statistics have loaded.
func (c *Comparison) Delta() *compare.Delta {
	return compare.Compare(c.Statistics(compare.Period1), c.Statistics(compare.Period2))
}

func (c *Comparison) Advisories(slot int) []period.Advisory {
	return advise(c.Gate, c.rules, c.Controller.Applied(slot), false)
}
