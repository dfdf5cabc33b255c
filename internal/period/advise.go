package period

import "fmt"

// Advisory is a non-blocking caution about a period that passes validation.
type Advisory struct {
	Kind    Kind
	Message string
}

// Soft limits sit inside the hard rule: the heart rate chart gets dense in the
// top third of its allowed range, and trends are thin until twice their minimum.
const (
	denseHeartRateShare = 2.0 / 3.0
	sparseTrendFactor   = 2.0
)

// Advise returns soft warnings for kinds whose period is valid but close to
// the edge of its rule. It never affects dispatch.
func Advise(r TimeRange, rules Rules, kinds ...Kind) []Advisory {
	if rules == nil {
		rules = DefaultRules()
	}

	var out []Advisory
	for _, kind := range kinds {
		if !Validate(r, kind, rules).Valid {
			continue
		}
		rule := rules[kind]
		minutes := r.Minutes()

		switch kind {
		case KindDetailedHeartRate:
			soft := rule.MaxMinutes * denseHeartRateShare
			if minutes > soft {
				out = append(out, Advisory{
					Kind: kind,
					Message: fmt.Sprintf("the heart rate chart is hard to read above %s; shorter periods are recommended",
						formatBound(soft)),
				})
			}
		case KindTrends:
			soft := rule.MinMinutes * sparseTrendFactor
			if minutes < soft {
				out = append(out, Advisory{
					Kind:    kind,
					Message: fmt.Sprintf("trend analysis has few points below %s", formatBound(soft)),
				})
			}
		}
	}
	return out
}
