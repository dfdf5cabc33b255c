package period

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var base = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func span(d time.Duration) TimeRange {
	return TimeRange{From: base, To: base.Add(d)}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	tests := []struct {
		name string
		r    TimeRange
		kind Kind
		want Verdict
	}{
		{
			name: "too short in seconds",
			r:    span(12 * time.Second),
			kind: KindBasicAnalysis,
			want: Verdict{Message: "period too short (12 sec). Minimum: 30 seconds."},
		},
		{
			name: "lower bound inclusive",
			r:    span(30 * time.Second),
			kind: KindBasicAnalysis,
			want: Verdict{Valid: true},
		},
		{
			name: "too long for heart rate",
			r:    span(20 * time.Minute),
			kind: KindDetailedHeartRate,
			want: Verdict{Message: "period too long (20 min). Maximum: 15 minutes."},
		},
		{
			name: "upper bound inclusive",
			r:    span(15 * time.Minute),
			kind: KindDetailedHeartRate,
			want: Verdict{Valid: true},
		},
		{
			name: "trends minimum in minutes",
			r:    span(5 * time.Minute),
			kind: KindTrends,
			want: Verdict{Message: "period too short (5 min). Minimum: 10 minutes."},
		},
		{
			name: "histogram minimum singular",
			r:    span(40 * time.Second),
			kind: KindHistogram,
			want: Verdict{Message: "period too short (40 sec). Minimum: 1 minute."},
		},
		{
			name: "maximum in hours",
			r:    span(25 * time.Hour),
			kind: KindScatterplot,
			want: Verdict{Message: "period too long (1500 min). Maximum: 24 hours."},
		},
		{
			name: "empty range",
			r:    span(0),
			kind: KindBasicAnalysis,
			want: Verdict{Message: "period too short (0 sec). Minimum: 30 seconds."},
		},
		{
			name: "unknown kind",
			r:    span(time.Hour),
			kind: Kind("spectral"),
			want: Verdict{Message: "unknown analysis kind"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Validate(tt.r, tt.kind, rules)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAdvise(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		r     TimeRange
		rules Rules
		kinds []Kind
		want  []Kind
	}{
		{name: "dense heart rate", r: span(12 * time.Minute), kinds: []Kind{KindDetailedHeartRate}, want: []Kind{KindDetailedHeartRate}},
		{name: "heart rate at its maximum", r: span(15 * time.Minute), kinds: []Kind{KindDetailedHeartRate}, want: []Kind{KindDetailedHeartRate}},
		{name: "sparse trends", r: span(15 * time.Minute), kinds: []Kind{KindTrends}, want: []Kind{KindTrends}},
		{name: "both near their edges", r: span(12 * time.Minute), kinds: []Kind{KindDetailedHeartRate, KindTrends}, want: []Kind{KindDetailedHeartRate, KindTrends}},
		{name: "invalid periods are not advised", r: span(30 * time.Minute), kinds: []Kind{KindDetailedHeartRate}},
		{name: "too short for trends", r: span(5 * time.Minute), kinds: []Kind{KindTrends}},
		{name: "comfortable heart rate", r: span(5 * time.Minute), kinds: []Kind{KindDetailedHeartRate}},
		{name: "comfortable trends", r: span(time.Hour), kinds: []Kind{KindTrends}},
		{
			name:  "soft limit follows the rule",
			r:     span(45 * time.Minute),
			rules: Rules{KindDetailedHeartRate: {MinMinutes: 0.5, MaxMinutes: 60}},
			kinds: []Kind{KindDetailedHeartRate},
			want:  []Kind{KindDetailedHeartRate},
		},
		{name: "other kinds ignored", r: span(time.Minute), kinds: []Kind{KindHistogram, KindScatterplot}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got []Kind
			for _, a := range Advise(tt.r, tt.rules, tt.kinds...) {
				if a.Message == "" {
					t.Errorf("advisory for %s has no message", a.Kind)
				}
				got = append(got, a.Kind)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Advise() kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    string
		to      string
		want    TimeRange
		wantErr error
	}{
		{
			name: "millisecond iso",
			from: "2025-03-14T12:00:00.000Z",
			to:   "2025-03-14T12:05:00.000Z",
			want: span(5 * time.Minute),
		},
		{
			name: "offset normalizes",
			from: "2025-03-14T14:00:00+02:00",
			to:   "2025-03-14T12:01:00Z",
			want: span(time.Minute),
		},
		{
			name: "equal ends accepted",
			from: "2025-03-14T12:00:00Z",
			to:   "2025-03-14T12:00:00Z",
			want: span(0),
		},
		{name: "inverted", from: "2025-03-14T12:05:00Z", to: "2025-03-14T12:00:00Z", wantErr: ErrInvertedRange},
		{name: "garbage", from: "yesterday", to: "2025-03-14T12:00:00Z", wantErr: ErrUnparsable},
		{name: "empty", from: "2025-03-14T12:00:00Z", to: "", wantErr: ErrUnparsable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRange(tt.from, tt.to)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseRange() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRange() unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseRange() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatISO(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+3", 3*60*60)
	got := FormatISO(time.Date(2025, 3, 14, 15, 4, 5, 6_000_000, loc))
	if want := "2025-03-14T12:04:05.006Z"; got != want {
		t.Errorf("FormatISO() = %q, want %q", got, want)
	}
}

func TestParseRules(t *testing.T) {
	t.Parallel()

	t.Run("merges over defaults", func(t *testing.T) {
		t.Parallel()
		rules, err := ParseRules([]byte("detailed_heart_rate:\n  min_minutes: 1\n  max_minutes: 30\n"))
		if err != nil {
			t.Fatalf("ParseRules() error: %v", err)
		}
		want := DefaultRules()
		want[KindDetailedHeartRate] = Rule{MinMinutes: 1, MaxMinutes: 30}
		if diff := cmp.Diff(want, rules); diff != "" {
			t.Errorf("rules mismatch (-want +got):\n%s", diff)
		}
	})

	for name, doc := range map[string]string{
		"min above max": "trends:\n  min_minutes: 20\n  max_minutes: 10\n",
		"negative":      "histogram:\n  min_minutes: -1\n  max_minutes: 10\n",
		"unknown kind":  "spectral:\n  min_minutes: 1\n  max_minutes: 10\n",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseRules([]byte(doc)); !errors.Is(err, ErrInvalidRule) {
				t.Errorf("ParseRules() error = %v, want ErrInvalidRule", err)
			}
		})
	}
}

func TestLoadRules(t *testing.T) {
	t.Parallel()

	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules(\"\") error: %v", err)
	}
	if diff := cmp.Diff(DefaultRules(), rules); diff != "" {
		t.Errorf("empty path should yield defaults (-want +got):\n%s", diff)
	}

	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("scatterplot:\n  min_minutes: 5\n  max_minutes: 60\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	rules, err = LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error: %v", err)
	}
	if got := rules[KindScatterplot]; got != (Rule{MinMinutes: 5, MaxMinutes: 60}) {
		t.Errorf("scatterplot rule = %+v", got)
	}
}
