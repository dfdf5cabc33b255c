package tui

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/rrdash/internal/client/rr"
	"github.com/garrettladley/rrdash/internal/compare"
	"github.com/garrettladley/rrdash/internal/dashboard"
	"github.com/garrettladley/rrdash/internal/period"
	"github.com/garrettladley/rrdash/internal/query"
	"github.com/garrettladley/rrdash/internal/tui/components/chart"
	"github.com/garrettladley/rrdash/internal/tui/theme"
	"github.com/garrettladley/rrdash/internal/xerrors"
)

const chartHeight = 4

func statsBlock(t theme.Theme, s *rr.Statistics) string {
	if s == nil {
		return t.Muted().Render("no statistics")
	}
	lines := []string{
		fmt.Sprintf("mean    %7.1f ms", s.Summary.Mean),
		fmt.Sprintf("std dev %7.1f ms", s.Summary.StdDev),
		fmt.Sprintf("min     %7.1f ms", s.Summary.Min),
		fmt.Sprintf("max     %7.1f ms", s.Summary.Max),
		fmt.Sprintf("count   %7d", s.Summary.Count),
	}
	if h := s.HRVMetrics; h != nil {
		lines = append(lines,
			fmt.Sprintf("rmssd   %7.1f ms", h.RMSSD),
			fmt.Sprintf("sdnn    %7.1f ms", h.SDNN),
			fmt.Sprintf("pnn50   %7.1f %%", h.PNN50),
		)
	}
	return t.Base().Render(strings.Join(lines, "\n"))
}

func statusStyle(s query.Status) lipgloss.Style {
	switch s {
	case query.StatusSuccess:
		return lipgloss.NewStyle().Foreground(theme.ColorOK)
	case query.StatusError:
		return lipgloss.NewStyle().Foreground(theme.ColorError)
	case query.StatusInvalid, query.StatusNoData:
		return lipgloss.NewStyle().Foreground(theme.ColorWarn)
	default:
		return lipgloss.NewStyle().Foreground(theme.ColorDim)
	}
}

// viewList shows each view's status, numbering the gated ones by toggle key.
func viewList(t theme.Theme, states []query.State) string {
	var lines []string
	key := 0
	for _, st := range states {
		prefix := "   "
		if st.View != dashboard.ViewStatistics {
			key++
			if key <= 9 {
				prefix = fmt.Sprintf("%d. ", key)
			}
		}
		status := st.Status.String()
		if st.IsFetching() && st.HasData {
			status += " (refreshing)"
		}
		line := prefix + fmt.Sprintf("%-24s", st.View) + statusStyle(st.Status).Render(status)
		if st.Status == query.StatusInvalid && st.Message != "" {
			line += " " + t.Muted().Render(st.Message)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func plot(st query.State, width int, c color.Color) (string, bool) {
	if st.Status != query.StatusSuccess {
		return "", false
	}
	switch d := st.Data.(type) {
	case *rr.IntervalsResponse:
		values := make([]float64, 0, len(d.Intervals))
		for _, iv := range d.Intervals {
			if iv.IsValid {
				values = append(values, iv.RRIntervalMS)
			}
		}
		return chart.New(width, chartHeight, "rr intervals", c).Line(values), true
	case *rr.HistogramResponse:
		return chart.New(width, chartHeight, "histogram", c).Bars(binCounts(d.Histogram.Bins)), true
	case *rr.DifferentialHistogram:
		return chart.New(width, chartHeight, "successive differences", c).Bars(binCounts(d.Bins)), true
	case *rr.TrendsResponse:
		values := make([]float64, len(d.TrendAnalysis.TrendPoints))
		for i, p := range d.TrendAnalysis.TrendPoints {
			values[i] = p.Value
		}
		return chart.New(width, chartHeight, "trend "+d.TrendAnalysis.OverallTrend, c).Line(values), true
	case *rr.Scatterplot:
		s := d.Statistics
		return fmt.Sprintf("poincaré  sd1 %.1f  sd2 %.1f  ratio %.2f  (%d points)",
			s.SD1, s.SD2, s.SD1SD2Ratio, d.TotalCount), true
	}
	return "", false
}

func binCounts(bins []rr.HistogramBin) []int {
	counts := make([]int, len(bins))
	for i, b := range bins {
		counts[i] = b.Count
	}
	return counts
}

func plots(states []query.State, width int, c color.Color) string {
	var out []string
	for _, st := range states {
		if p, ok := plot(st, width, c); ok {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

func advisories(t theme.Theme, list []period.Advisory) string {
	lines := make([]string, len(list))
	for i, a := range list {
		lines[i] = t.Warn().Render("! " + a.Message)
	}
	return strings.Join(lines, "\n")
}

func errorLine(t theme.Theme, sum query.Summary) string {
	err := sum.First()
	if err == nil {
		return ""
	}
	return t.Error().Render(xerrors.Message(err))
}

func rangeLine(r period.TimeRange, dirty bool) string {
	s := period.FormatISO(r.From) + " → " + period.FormatISO(r.To)
	if dirty {
		s += "  (edited, not applied)"
	}
	return s
}

func percentChange(label string, v *float64) string {
	if v == nil {
		return fmt.Sprintf("%-8s %8s", label, "--")
	}
	return fmt.Sprintf("%-8s %+7.1f%%", label, *v)
}

func deltaBlock(t theme.Theme, d *compare.Delta) string {
	if d == nil {
		return t.Muted().Render("comparison needs statistics for both periods")
	}
	lines := []string{
		fmt.Sprintf("%-8s %+7.1f%%", "mean", d.MeanChange),
		fmt.Sprintf("%-8s %+7.1f%%", "std dev", d.StdDevChange),
		fmt.Sprintf("%-8s %+7.1f%%", "count", d.CountChange),
		fmt.Sprintf("%-8s %+7.1f ms", "min", d.MinChange),
		fmt.Sprintf("%-8s %+7.1f ms", "max", d.MaxChange),
		percentChange("rmssd", d.RMSSDChange),
		percentChange("sdnn", d.SDNNChange),
		percentChange("pnn50", d.PNN50Change),
		percentChange("tri idx", d.TriangularIndexChange),
	}
	return t.Base().Render(strings.Join(lines, "\n"))
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}
