package main

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/rrdash/internal/compare"
	"github.com/garrettladley/rrdash/internal/dashboard"
	"github.com/garrettladley/rrdash/internal/location"
	"github.com/garrettladley/rrdash/internal/period"
	"github.com/garrettladley/rrdash/internal/query"
	"github.com/garrettladley/rrdash/internal/repository"
	"github.com/garrettladley/rrdash/internal/visibility"
	"github.com/garrettladley/rrdash/internal/xerrors"
)

// rangeFlags collects period bounds under the same keys the web links use.
type rangeFlags struct {
	link   string
	values map[string]*string
	pairs  [][2]string
}

func addRangeFlags(cmd *cobra.Command, mode compare.Mode) *rangeFlags {
	f := &rangeFlags{values: make(map[string]*string)}
	keys := [][2]string{{"from", "to"}}
	if mode == compare.ModePair {
		keys = [][2]string{{"period1_from", "period1_to"}, {"period2_from", "period2_to"}}
	}
	for _, pair := range keys {
		f.pairs = append(f.pairs, pair)
		for _, key := range pair {
			f.values[key] = cmd.Flags().String(strings.ReplaceAll(key, "_", "-"), "", "ISO-8601 bound ("+key+")")
		}
	}
	cmd.Flags().StringVar(&f.link, "link", "", "read the periods from a shared dashboard link")
	return f
}

// query builds the location query, rejecting bad explicit input instead of
// silently falling back to defaults.
func (f *rangeFlags) query() (url.Values, error) {
	q := url.Values{}
	if f.link != "" {
		loc, err := location.Parse(f.link)
		if err != nil {
			return nil, fmt.Errorf("invalid link: %w", err)
		}
		q = loc.Query()
	}

	for _, pair := range f.pairs {
		from, to := *f.values[pair[0]], *f.values[pair[1]]
		if from == "" && to == "" {
			continue
		}
		if _, err := period.ParseRange(from, to); err != nil {
			return nil, fmt.Errorf("--%s/--%s: %w", dash(pair[0]), dash(pair[1]), err)
		}
		q.Set(pair[0], from)
		q.Set(pair[1], to)
	}
	return q, nil
}

func dash(key string) string { return strings.ReplaceAll(key, "_", "-") }

type viewFlags struct {
	views []string
	all   bool
}

func addViewFlags(cmd *cobra.Command) *viewFlags {
	f := &viewFlags{}
	names := make([]string, 0, len(visibility.Views()))
	for _, v := range visibility.Views() {
		names = append(names, string(v))
	}
	cmd.Flags().StringSliceVar(&f.views, "view", nil, "views to show: "+strings.Join(names, ", "))
	cmd.Flags().BoolVar(&f.all, "all", false, "show every view")
	return f
}

func (f *viewFlags) gate() (*visibility.Gate, error) {
	g := visibility.New()
	if f.all {
		g.ShowAll()
		return g, nil
	}
	for _, name := range f.views {
		v := visibility.View(name)
		if !slices.Contains(visibility.Views(), v) {
			return nil, fmt.Errorf("unknown view %q", name)
		}
		if !g.IsVisible(v) {
			g.Toggle(v)
		}
	}
	return g, nil
}

func panelCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Analyse a single period",
	}
	ranges := addRangeFlags(cmd, compare.ModePanel)
	views := addViewFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw results as JSON")

	cmd.RunE = withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		q, err := ranges.query()
		if err != nil {
			return err
		}
		gate, err := views.gate()
		if err != nil {
			return err
		}

		a.location.Push(compare.PanelPath, q)
		p := dashboard.NewPanel(dashboard.FromClient(a.client), a.location, gate, time.Now(),
			dashboard.WithRules(a.rules),
		)
		sum := p.Apply(cmd.Context())

		if asJSON {
			if err := printJSON(cmd.OutOrStdout(), statesJSON(p.States())); err != nil {
				return err
			}
		} else {
			printPanel(cmd.OutOrStdout(), p)
		}
		return summaryError(sum)
	})
	return cmd
}

func compareCmd() *cobra.Command {
	var (
		save   bool
		name   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two periods",
	}
	ranges := addRangeFlags(cmd, compare.ModePair)
	views := addViewFlags(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "store the comparison as a report")
	cmd.Flags().StringVar(&name, "name", "", "report name (defaults to the periods)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the delta as JSON")

	cmd.RunE = withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		ctx := cmd.Context()

		q, err := ranges.query()
		if err != nil {
			return err
		}
		gate, err := views.gate()
		if err != nil {
			return err
		}

		a.location.Push(compare.ComparisonPath, q)
		c := dashboard.NewComparison(dashboard.FromClient(a.client), a.location, gate, time.Now(),
			dashboard.WithRules(a.rules),
		)
		sum := c.Apply(ctx)

		if asJSON {
			if err := printJSON(cmd.OutOrStdout(), c.Delta()); err != nil {
				return err
			}
		} else {
			printComparison(cmd.OutOrStdout(), c)
		}
		if err := summaryError(sum); err != nil {
			return err
		}

		if !save {
			return nil
		}
		return saveReport(cmd, a, c, name)
	})
	return cmd
}

func saveReport(cmd *cobra.Command, a *app, c *dashboard.Comparison, name string) error {
	ctx := cmd.Context()
	delta := c.Delta()
	if delta == nil {
		return errors.New("nothing to save: both periods need statistics")
	}

	userID, _ := a.session.CurrentUserID()
	p1, p2 := c.Controller.Applied(compare.Period1), c.Controller.Applied(compare.Period2)
	if name == "" {
		name = p1.String() + " vs " + p2.String()
	}

	repo, err := a.reports(ctx)
	if err != nil {
		return err
	}
	report := &repository.Report{
		UserID:      userID,
		Name:        name,
		Period1:     p1,
		Period2:     p2,
		Statistics1: c.Statistics(compare.Period1),
		Statistics2: c.Statistics(compare.Period2),
		Delta:       delta,
	}
	if err := repo.Save(ctx, report); err != nil {
		return err
	}
	cmd.Printf("Saved report %s\n", report.ID)
	return nil
}

func linkCmd() *cobra.Command {
	var pair bool

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print a shareable dashboard link for the given periods",
	}
	cmd.Flags().BoolVar(&pair, "compare", false, "link to the comparison page")
	panelRanges := addRangeFlags(cmd, compare.ModePanel)
	pairRanges := &rangeFlags{values: make(map[string]*string)}
	for _, p := range [][2]string{{"period1_from", "period1_to"}, {"period2_from", "period2_to"}} {
		pairRanges.pairs = append(pairRanges.pairs, p)
		for _, key := range p {
			pairRanges.values[key] = cmd.Flags().String(dash(key), "", "ISO-8601 bound ("+key+")")
		}
	}

	cmd.RunE = withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		mode, ranges := compare.ModePanel, panelRanges
		if pair {
			mode, ranges = compare.ModePair, pairRanges
			pairRanges.link = panelRanges.link
		}
		q, err := ranges.query()
		if err != nil {
			return err
		}

		a.location.Push(mode.Path(), q)
		ctrl := compare.New(a.location, mode, time.Now())
		// writing a draft mirrors every period, defaults included, into the URL
		if err := ctrl.SetDraftRange(0, ctrl.Draft(0)); err != nil {
			return err
		}
		cmd.Println(a.location.Link(a.cfg.WebURL))
		return nil
	})
	return cmd
}

func summaryError(sum query.Summary) error {
	if err := sum.First(); err != nil {
		return errors.New(xerrors.Message(err))
	}
	return nil
}
