package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/garrettladley/rrdash/internal/compare"
	"github.com/garrettladley/rrdash/internal/dashboard"
	"github.com/garrettladley/rrdash/internal/location"
	"github.com/garrettladley/rrdash/internal/tui"
	"github.com/garrettladley/rrdash/internal/visibility"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive TUI",
		Long:  "Opens the full-screen dashboards for a single period and a two-period comparison.",
		RunE:  runTUI,
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	events := tui.NewEvents()

	a, ctx, err := newApp(cmd.Context(), withNavigator(events))
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		api      = dashboard.FromClient(a.client)
		gate     = visibility.New()
		now      = time.Now()
		panelLoc = location.New(compare.PanelPath, nil)
		pairLoc  = location.New(compare.ComparisonPath, nil)
	)
	panel := dashboard.NewPanel(api, panelLoc, gate, now,
		dashboard.WithRules(a.rules),
		dashboard.WithOnUpdate(events.OnUpdate(tui.PagePanel)),
	)
	comparison := dashboard.NewComparison(api, pairLoc, gate, now,
		dashboard.WithRules(a.rules),
		dashboard.WithOnUpdate(events.OnUpdate(tui.PageComparison)),
	)

	model := tui.New(tui.Deps{
		Ctx:        ctx,
		Cancel:     cancel,
		Logger:     a.logger,
		Session:    a.session,
		Panel:      panel,
		Comparison: comparison,
		Events:     events,
		Link: func(p tui.Page) string {
			if p == tui.PageComparison {
				return pairLoc.Link(a.cfg.WebURL)
			}
			return panelLoc.Link(a.cfg.WebURL)
		},
	})

	p := tea.NewProgram(&model)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
