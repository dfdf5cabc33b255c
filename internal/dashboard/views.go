// Package dashboard assembles the period controller, visibility gate and
// query orchestrator into the two analysis screens.
package dashboard

import (
	"context"

	"github.com/garrettladley/rrdash/internal/client/rr"
	"github.com/garrettladley/rrdash/internal/period"
	"github.com/garrettladley/rrdash/internal/query"
	"github.com/garrettladley/rrdash/internal/visibility"
)

const ViewStatistics = "statistics"

// API is the slice of the RR client the dashboards read from.
type API struct {
	Analytics rr.AnalyticsService
	Intervals rr.IntervalService
}

func FromClient(c *rr.Client) API {
	return API{Analytics: c.Analytics, Intervals: c.Intervals}
}

func statisticsView(api API) query.View {
	return query.View{
		Name: ViewStatistics,
		Kind: period.KindBasicAnalysis,
		Fetch: func(ctx context.Context, r period.TimeRange) (any, error) {
			return api.Analytics.Statistics(ctx, &rr.StatisticsParams{Range: r})
		},
		Empty: func(data any) bool { return data.(*rr.Statistics).Summary.Count == 0 },
	}
}

func heartRateView(api API) query.View {
	return query.View{
		Name:  string(visibility.HeartRate),
		Kind:  period.KindDetailedHeartRate,
		Gated: true,
		Fetch: func(ctx context.Context, r period.TimeRange) (any, error) {
			return api.Intervals.List(ctx, &rr.IntervalParams{Range: r})
		},
		Empty: func(data any) bool { return len(data.(*rr.IntervalsResponse).Intervals) == 0 },
	}
}

// chartViews are shared by both dashboards. The differential histogram is
// bounded like the plain histogram.
func chartViews(api API) []query.View {
	return []query.View{
		{
			Name:  string(visibility.Histogram),
			Kind:  period.KindHistogram,
			Gated: true,
			Fetch: func(ctx context.Context, r period.TimeRange) (any, error) {
				return api.Analytics.Histogram(ctx, &rr.HistogramParams{Range: r})
			},
			Empty: func(data any) bool { return data.(*rr.HistogramResponse).Histogram.TotalCount == 0 },
		},
		{
			Name:  string(visibility.DifferentialHistogram),
			Kind:  period.KindHistogram,
			Gated: true,
			Fetch: func(ctx context.Context, r period.TimeRange) (any, error) {
				return api.Analytics.DifferentialHistogram(ctx, &rr.HistogramParams{Range: r})
			},
			Empty: func(data any) bool { return data.(*rr.DifferentialHistogram).TotalCount == 0 },
		},
		{
			Name:  string(visibility.Scatterplot),
			Kind:  period.KindScatterplot,
			Gated: true,
			Fetch: func(ctx context.Context, r period.TimeRange) (any, error) {
				return api.Analytics.Scatterplot(ctx, r)
			},
			Empty: func(data any) bool { return len(data.(*rr.Scatterplot).Points) == 0 },
		},
		{
			Name:  string(visibility.Trends),
			Kind:  period.KindTrends,
			Gated: true,
			Fetch: func(ctx context.Context, r period.TimeRange) (any, error) {
				return api.Analytics.Trends(ctx, &rr.TrendsParams{Range: r})
			},
			Empty: func(data any) bool { return len(data.(*rr.TrendsResponse).TrendAnalysis.TrendPoints) == 0 },
		},
	}
}

func panelViews(api API) []query.View {
	return append([]query.View{statisticsView(api), heartRateView(api)}, chartViews(api)...)
}

func comparisonViews(api API) []query.View {
	return append([]query.View{statisticsView(api)}, chartViews(api)...)
}

// statistics extracts a successful statistics result from an orchestrator.
func statistics(o *query.Orchestrator) *rr.Statistics {
	st := o.State(ViewStatistics)
	if st.Status != query.StatusSuccess {
		return nil
	}
	stats, _ := st.Data.(*rr.Statistics)
	return stats
}
