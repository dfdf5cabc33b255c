package dashboard

import (
	"log/slog"

	"github.com/garrettladley/rrdash/internal/period"
	"github.com/garrettladley/rrdash/internal/query"
)

type config struct {
	logger   *slog.Logger
	limit    int
	rules    period.Rules
	onUpdate func(slot int, st query.State)
}

type Option func(*config)

// WithLogger fixes the logger. Without it fetches log through the logger
// carried by the context passed to Apply, Load or Refresh.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func WithLimit(n int) Option {
	return func(c *config) { c.limit = n }
}

func WithRules(rules period.Rules) Option {
	return func(c *config) { c.rules = rules }
}

// WithOnUpdate reports view state changes tagged with the period slot.
func WithOnUpdate(fn func(slot int, st query.State)) Option {
	return func(c *config) { c.onUpdate = fn }
}

func newConfig(opts []Option) *config {
	cfg := &config{
		limit: 4,
		rules: period.DefaultRules(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config) orchestratorOptions(slot int) []query.Option {
	opts := []query.Option{
		query.WithLogger(c.logger),
		query.WithLimit(c.limit),
	}
	if c.onUpdate != nil {
		fn := c.onUpdate
		opts = append(opts, query.WithOnUpdate(func(st query.State) { fn(slot, st) }))
	}
	return opts
}
