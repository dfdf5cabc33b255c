package period

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind identifies an analysis whose period length is constrained.
type Kind string

const (
	KindBasicAnalysis     Kind = "basic_analysis"
	KindDetailedHeartRate Kind = "detailed_heart_rate"
	KindTrends            Kind = "trends"
	KindHistogram         Kind = "histogram"
	KindScatterplot       Kind = "scatterplot"
)

func Kinds() []Kind {
	return []Kind{
		KindBasicAnalysis,
		KindDetailedHeartRate,
		KindTrends,
		KindHistogram,
		KindScatterplot,
	}
}

func (k Kind) Valid() bool {
	switch k {
	case KindBasicAnalysis, KindDetailedHeartRate, KindTrends, KindHistogram, KindScatterplot:
		return true
	}
	return false
}

// Rule bounds a period length in minutes, inclusive on both ends.
type Rule struct {
	MinMinutes float64 `yaml:"min_minutes"`
	MaxMinutes float64 `yaml:"max_minutes"`
}

type Rules map[Kind]Rule

const day = 24 * 60

func DefaultRules() Rules {
	return Rules{
		KindBasicAnalysis:     {MinMinutes: 0.5, MaxMinutes: day},
		KindDetailedHeartRate: {MinMinutes: 0.5, MaxMinutes: 15},
		KindTrends:            {MinMinutes: 10, MaxMinutes: day},
		KindHistogram:         {MinMinutes: 1, MaxMinutes: day},
		KindScatterplot:       {MinMinutes: 2, MaxMinutes: day},
	}
}

var ErrInvalidRule = errors.New("invalid rule")

func (r Rule) validate() error {
	if r.MinMinutes < 0 || r.MaxMinutes < 0 {
		return fmt.Errorf("%w: negative bound", ErrInvalidRule)
	}
	if r.MinMinutes > r.MaxMinutes {
		return fmt.Errorf("%w: min %g exceeds max %g", ErrInvalidRule, r.MinMinutes, r.MaxMinutes)
	}
	return nil
}

// ParseRules reads YAML overrides keyed by kind and merges them over the defaults:
//
//	detailed_heart_rate:
//	  min_minutes: 1
//	  max_minutes: 30
func ParseRules(data []byte) (Rules, error) {
	var overrides map[Kind]Rule
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	rules := DefaultRules()
	for kind, rule := range overrides {
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, kind)
		}
		if err := rule.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		rules[kind] = rule
	}
	return rules, nil
}

// LoadRules reads overrides from path. An empty path yields the defaults.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(data)
}
