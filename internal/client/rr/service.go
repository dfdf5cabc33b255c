package rr

import (
	"context"

	"github.com/garrettladley/rrdash/internal/period"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) error
	TelegramLogin(ctx context.Context, auth TelegramAuth) (*AuthResponse, error)
	TelegramConfirm(ctx context.Context, req TelegramConfirmRequest) (*AuthResponse, error)
	Refresh(ctx context.Context) (string, error)
}

type AnalyticsService interface {
	Statistics(ctx context.Context, params *StatisticsParams) (*Statistics, error)
	Histogram(ctx context.Context, params *HistogramParams) (*HistogramResponse, error)
	DifferentialHistogram(ctx context.Context, params *HistogramParams) (*DifferentialHistogram, error)
	Scatterplot(ctx context.Context, r period.TimeRange) (*Scatterplot, error)
	Trends(ctx context.Context, params *TrendsParams) (*TrendsResponse, error)
	HRV(ctx context.Context, r period.TimeRange) (*HRVResponse, error)
	Aggregated(ctx context.Context, params *AggregatedParams) (*Aggregated, error)
	Complete(ctx context.Context, params *CompleteParams) (*CompleteAnalysisResponse, error)
}

type IntervalService interface {
	List(ctx context.Context, params *IntervalParams) (*IntervalsResponse, error)
}

type DeviceService interface {
	List(ctx context.Context) ([]Device, error)
	Delete(ctx context.Context, id string) error
}

type UserService interface {
	Get(ctx context.Context) (*User, error)
	Settings(ctx context.Context) (*Settings, error)
}
