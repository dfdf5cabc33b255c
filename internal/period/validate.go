package period

import (
	"fmt"
	"math"
)

type Verdict struct {
	Valid   bool
	Message string
}

// Validate checks r against the rule for kind. Bounds are inclusive.
func Validate(r TimeRange, kind Kind, rules Rules) Verdict {
	rule, ok := rules[kind]
	if !ok {
		return Verdict{Message: "unknown analysis kind"}
	}

	minutes := r.Minutes()
	switch {
	case minutes < rule.MinMinutes:
		return Verdict{Message: fmt.Sprintf("period too short (%s). Minimum: %s.",
			formatActual(minutes), formatBound(rule.MinMinutes))}
	case minutes > rule.MaxMinutes:
		return Verdict{Message: fmt.Sprintf("period too long (%s). Maximum: %s.",
			formatActual(minutes), formatBound(rule.MaxMinutes))}
	}
	return Verdict{Valid: true}
}

// formatActual renders a measured duration: seconds under a minute, else minutes.
func formatActual(minutes float64) string {
	if minutes < 1 {
		return fmt.Sprintf("%d sec", int(math.Round(minutes*60)))
	}
	return fmt.Sprintf("%d min", int(math.Round(minutes)))
}

// formatBound renders a configured limit in its most natural unit.
func formatBound(minutes float64) string {
	switch {
	case minutes < 1:
		return plural(minutes*60, "second")
	case minutes >= 60:
		return plural(minutes/60, "hour")
	default:
		return plural(minutes, "minute")
	}
}

func plural(v float64, unit string) string {
	s := trimFloat(v)
	if s != "1" {
		unit += "s"
	}
	return s + " " + unit
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
