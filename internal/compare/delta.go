package compare

import (
	"github.com/garrettladley/rrdash/internal/client/rr"
)

// Delta describes how period 2 moved relative to period 1. Percentages are
// relative to period 1; Min and Max are differences in milliseconds.
type Delta struct {
	MeanChange   float64 `json:"mean_change"`
	StdDevChange float64 `json:"std_dev_change"`
	CountChange  float64 `json:"count_change"`
	MinChange    float64 `json:"min_change"`
	MaxChange    float64 `json:"max_change"`

	RMSSDChange           *float64 `json:"rmssd_change,omitempty"`
	SDNNChange            *float64 `json:"sdnn_change,omitempty"`
	PNN50Change           *float64 `json:"pnn50_change,omitempty"`
	TriangularIndexChange *float64 `json:"triangular_index_change,omitempty"`
}

// Compare returns nil unless both periods have statistics.
func Compare(p1, p2 *rr.Statistics) *Delta {
	if p1 == nil || p2 == nil {
		return nil
	}
	s1, s2 := p1.Summary, p2.Summary

	d := &Delta{
		MeanChange:   percent(s1.Mean, s2.Mean),
		StdDevChange: percent(s1.StdDev, s2.StdDev),
		CountChange:  percent(float64(s1.Count), float64(s2.Count)),
		MinChange:    s2.Min - s1.Min,
		MaxChange:    s2.Max - s1.Max,
	}

	h1, h2 := p1.HRVMetrics, p2.HRVMetrics
	if h1 == nil || h2 == nil {
		return d
	}
	d.RMSSDChange = nonZeroPercent(h1.RMSSD, h2.RMSSD)
	d.SDNNChange = nonZeroPercent(h1.SDNN, h2.SDNN)
	d.TriangularIndexChange = nonZeroPercent(h1.TriangularIndex, h2.TriangularIndex)

	base := h1.PNN50
	if base == 0 {
		base = 1
	}
	pnn := (h2.PNN50 - h1.PNN50) / base * 100
	d.PNN50Change = &pnn

	return d
}

// percent is 0 for a zero baseline so the delta stays encodable.
func percent(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}

func nonZeroPercent(from, to float64) *float64 {
	if from == 0 || to == 0 {
		return nil
	}
	p := percent(from, to)
	return &p
}
