package main

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/rrdash/internal/client/rr"
	"github.com/garrettladley/rrdash/internal/compare"
	"github.com/garrettladley/rrdash/internal/dashboard"
	"github.com/garrettladley/rrdash/internal/period"
	"github.com/garrettladley/rrdash/internal/query"
)

func printJSON(w io.Writer, v any) error {
	data, err := go_json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

type stateJSON struct {
	View    string `json:"view"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func statesJSON(states []query.State) []stateJSON {
	out := make([]stateJSON, len(states))
	for i, st := range states {
		out[i] = stateJSON{View: st.View, Status: st.Status.String(), Message: st.Message, Data: st.Data}
		if st.Err != nil {
			out[i].Error = st.Err.Error()
		}
	}
	return out
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...)
}

func statsRows(stats ...*rr.Statistics) [][]string {
	cell := func(s *rr.Statistics, f func(*rr.Statistics) string) string {
		if s == nil {
			return "--"
		}
		return f(s)
	}
	hrv := func(s *rr.Statistics, f func(*rr.HRVMetrics) float64) string {
		if s == nil || s.HRVMetrics == nil {
			return "--"
		}
		return fmt.Sprintf("%.1f", f(s.HRVMetrics))
	}

	metrics := []struct {
		name string
		get  func(*rr.Statistics) string
	}{
		{"mean (ms)", func(s *rr.Statistics) string { return fmt.Sprintf("%.1f", s.Summary.Mean) }},
		{"std dev (ms)", func(s *rr.Statistics) string { return fmt.Sprintf("%.1f", s.Summary.StdDev) }},
		{"min (ms)", func(s *rr.Statistics) string { return fmt.Sprintf("%.1f", s.Summary.Min) }},
		{"max (ms)", func(s *rr.Statistics) string { return fmt.Sprintf("%.1f", s.Summary.Max) }},
		{"count", func(s *rr.Statistics) string { return fmt.Sprintf("%d", s.Summary.Count) }},
		{"rmssd (ms)", func(s *rr.Statistics) string { return hrv(s, func(h *rr.HRVMetrics) float64 { return h.RMSSD }) }},
		{"sdnn (ms)", func(s *rr.Statistics) string { return hrv(s, func(h *rr.HRVMetrics) float64 { return h.SDNN }) }},
		{"pnn50 (%)", func(s *rr.Statistics) string { return hrv(s, func(h *rr.HRVMetrics) float64 { return h.PNN50 }) }},
	}

	rows := make([][]string, len(metrics))
	for i, m := range metrics {
		row := []string{m.name}
		for _, s := range stats {
			row = append(row, cell(s, m.get))
		}
		rows[i] = row
	}
	return rows
}

func viewRows(states []query.State) [][]string {
	rows := make([][]string, 0, len(states))
	for _, st := range states {
		detail := st.Message
		if st.Status == query.StatusError && st.Err != nil {
			detail = st.Err.Error()
		}
		rows = append(rows, []string{st.View, st.Status.String(), detail})
	}
	return rows
}

func printAdvisories(w io.Writer, list []period.Advisory) {
	for _, a := range list {
		fmt.Fprintf(w, "! %s\n", a.Message)
	}
}

func printPanel(w io.Writer, p *dashboard.Panel) {
	fmt.Fprintf(w, "Period %s\n", p.Controller.Applied(0))
	fmt.Fprintln(w, newTable("metric", "value").Rows(statsRows(p.Statistics())...).String())
	fmt.Fprintln(w, newTable("view", "status", "detail").Rows(viewRows(p.States())...).String())
	printAdvisories(w, p.Advisories())
}

func printComparison(w io.Writer, c *dashboard.Comparison) {
	p1, p2 := c.Controller.Applied(compare.Period1), c.Controller.Applied(compare.Period2)
	fmt.Fprintf(w, "Period 1 %s\nPeriod 2 %s\n", p1, p2)

	s1, s2 := c.Statistics(compare.Period1), c.Statistics(compare.Period2)
	fmt.Fprintln(w, newTable("metric", "period 1", "period 2").Rows(statsRows(s1, s2)...).String())

	if d := c.Delta(); d != nil {
		fmt.Fprintln(w, newTable("change", "value").Rows(deltaRows(d)...).String())
	}
	for i := range c.Controller.Len() {
		fmt.Fprintf(w, "%s views\n", c.Controller.Name(i))
		fmt.Fprintln(w, newTable("view", "status", "detail").Rows(viewRows(c.Queries(i).States())...).String())
		printAdvisories(w, c.Advisories(i))
	}
}

func deltaRows(d *compare.Delta) [][]string {
	pct := func(v *float64) string {
		if v == nil {
			return "--"
		}
		return fmt.Sprintf("%+.1f%%", *v)
	}
	return [][]string{
		{"mean", fmt.Sprintf("%+.1f%%", d.MeanChange)},
		{"std dev", fmt.Sprintf("%+.1f%%", d.StdDevChange)},
		{"count", fmt.Sprintf("%+.1f%%", d.CountChange)},
		{"min", fmt.Sprintf("%+.1f ms", d.MinChange)},
		{"max", fmt.Sprintf("%+.1f ms", d.MaxChange)},
		{"rmssd", pct(d.RMSSDChange)},
		{"sdnn", pct(d.SDNNChange)},
		{"pnn50", pct(d.PNN50Change)},
		{"triangular index", pct(d.TriangularIndexChange)},
	}
}
