package rr

import (
	"context"
	"net/http"

	"github.com/garrettladley/rrdash/internal/period"
)

type analyticsService struct {
	client *Client
}

var _ AnalyticsService = (*analyticsService)(nil)

func (s *analyticsService) Statistics(ctx context.Context, params *StatisticsParams) (*Statistics, error) {
	const route = "/v1/rr-intervals/analytics/statistics"

	var stats Statistics
	if err := s.client.do(ctx, http.MethodGet, route, params.values(), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *analyticsService) Histogram(ctx context.Context, params *HistogramParams) (*HistogramResponse, error) {
	const route = "/v1/rr-intervals/analytics/histogram"

	var resp HistogramResponse
	if err := s.client.do(ctx, http.MethodGet, route, params.values(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *analyticsService) DifferentialHistogram(ctx context.Context, params *HistogramParams) (*DifferentialHistogram, error) {
	const route = "/v1/rr-intervals/analytics/differential-histogram"

	var hist DifferentialHistogram
	if err := s.client.do(ctx, http.MethodGet, route, params.values(), nil, &hist); err != nil {
		return nil, err
	}
	return &hist, nil
}

func (s *analyticsService) Scatterplot(ctx context.Context, r period.TimeRange) (*Scatterplot, error) {
	const route = "/v1/rr-intervals/analytics/scatterplot"

	var plot Scatterplot
	if err := s.client.do(ctx, http.MethodGet, route, rangeValues(r), nil, &plot); err != nil {
		return nil, err
	}
	return &plot, nil
}

func (s *analyticsService) Trends(ctx context.Context, params *TrendsParams) (*TrendsResponse, error) {
	const route = "/v1/rr-intervals/analytics/trends"

	var resp TrendsResponse
	if err := s.client.do(ctx, http.MethodGet, route, params.values(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *analyticsService) HRV(ctx context.Context, r period.TimeRange) (*HRVResponse, error) {
	const route = "/v1/rr-intervals/analytics/hrv"

	var resp HRVResponse
	if err := s.client.do(ctx, http.MethodGet, route, rangeValues(r), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *analyticsService) Aggregated(ctx context.Context, params *AggregatedParams) (*Aggregated, error) {
	const route = "/v1/rr-intervals/analytics/aggregated"

	var agg Aggregated
	if err := s.client.do(ctx, http.MethodGet, route, params.values(), nil, &agg); err != nil {
		return nil, err
	}
	return &agg, nil
}

func (s *analyticsService) Complete(ctx context.Context, params *CompleteParams) (*CompleteAnalysisResponse, error) {
	const route = "/v1/rr-intervals/analytics/complete"

	var resp CompleteAnalysisResponse
	if err := s.client.do(ctx, http.MethodGet, route, params.values(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
