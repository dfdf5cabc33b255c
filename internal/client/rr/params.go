package rr

import (
	"net/url"
	"strconv"

	"github.com/garrettladley/rrdash/internal/period"
)

const (
	DefaultBinsCount  = 25
	DefaultWindowSize = 5
)

func rangeValues(r period.TimeRange) url.Values {
	v := make(url.Values)
	v.Set("from", period.FormatISO(r.From))
	v.Set("to", period.FormatISO(r.To))
	return v
}

type StatisticsParams struct {
	Range            period.TimeRange
	IncludeHistogram bool
	// ExcludeHRV turns off the HRV block, which the server includes by default.
	ExcludeHRV bool
	BinsCount  int
}

func (p *StatisticsParams) values() url.Values {
	v := rangeValues(p.Range)
	v.Set("include_histogram", strconv.FormatBool(p.IncludeHistogram))
	v.Set("include_hrv", strconv.FormatBool(!p.ExcludeHRV))
	if p.IncludeHistogram && p.BinsCount > 0 {
		v.Set("bins_count", strconv.Itoa(p.BinsCount))
	}
	return v
}

type HistogramParams struct {
	Range     period.TimeRange
	BinsCount int
}

func (p *HistogramParams) values() url.Values {
	v := rangeValues(p.Range)
	bins := p.BinsCount
	if bins <= 0 {
		bins = DefaultBinsCount
	}
	v.Set("bins_count", strconv.Itoa(bins))
	return v
}

type TrendsParams struct {
	Range      period.TimeRange
	WindowSize int
}

func (p *TrendsParams) values() url.Values {
	v := rangeValues(p.Range)
	size := p.WindowSize
	if size <= 0 {
		size = DefaultWindowSize
	}
	v.Set("window_size", strconv.Itoa(size))
	return v
}

type AggregatedParams struct {
	Range           period.TimeRange
	IntervalMinutes int
}

func (p *AggregatedParams) values() url.Values {
	v := rangeValues(p.Range)
	interval := p.IntervalMinutes
	if interval <= 0 {
		interval = 1
	}
	v.Set("interval", strconv.Itoa(interval))
	return v
}

type CompleteParams struct {
	Range               period.TimeRange
	AggregationInterval int
	TrendWindowSize     int
	HistogramBins       int
	DiffHistogramBins   int
	IncludeRawData      bool
	MaxDataPoints       int
	Quick               bool
}

func (p *CompleteParams) values() url.Values {
	v := rangeValues(p.Range)
	setPositive(v, "aggregation_interval", p.AggregationInterval)
	setPositive(v, "trend_window_size", p.TrendWindowSize)
	setPositive(v, "histogram_bins", p.HistogramBins)
	setPositive(v, "diff_histogram_bins", p.DiffHistogramBins)
	setPositive(v, "max_data_points", p.MaxDataPoints)
	if p.IncludeRawData {
		v.Set("include_raw_data", "true")
	}
	if p.Quick {
		v.Set("quick", "true")
	}
	return v
}

type IntervalParams struct {
	Range    period.TimeRange
	DeviceID string
}

func (p *IntervalParams) values() url.Values {
	v := rangeValues(p.Range)
	if p.DeviceID != "" {
		v.Set("device_id", p.DeviceID)
	}
	return v
}

func setPositive(v url.Values, key string, n int) {
	if n > 0 {
		v.Set(key, strconv.Itoa(n))
	}
}
