package main

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/garrettladley/rrdash/internal/compare"
	"github.com/garrettladley/rrdash/internal/period"
	"github.com/garrettladley/rrdash/internal/visibility"
)

func TestRangeFlagsQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mode    compare.Mode
		args    []string
		want    url.Values
		wantErr error
	}{
		{
			name: "no flags keeps defaults",
			mode: compare.ModePanel,
			want: url.Values{},
		},
		{
			name: "explicit panel range",
			mode: compare.ModePanel,
			args: []string{"--from", "2026-03-01T10:00:00.000Z", "--to", "2026-03-01T10:05:00.000Z"},
			want: url.Values{
				"from": {"2026-03-01T10:00:00.000Z"},
				"to":   {"2026-03-01T10:05:00.000Z"},
			},
		},
		{
			name:    "inverted range rejected",
			mode:    compare.ModePanel,
			args:    []string{"--from", "2026-03-01T11:00:00Z", "--to", "2026-03-01T10:00:00Z"},
			wantErr: period.ErrInvertedRange,
		},
		{
			name:    "half a pair rejected",
			mode:    compare.ModePair,
			args:    []string{"--period2-from", "2026-03-01T10:00:00Z"},
			wantErr: period.ErrUnparsable,
		},
		{
			name: "link overridden by flags",
			mode: compare.ModePair,
			args: []string{
				"--link", "https://app.example.com/panel/comparative-analysis?period1_from=2026-03-01T00:00:00.000Z&period1_to=2026-03-01T04:00:00.000Z&tab=hrv",
				"--period1-from", "2026-03-02T00:00:00.000Z", "--period1-to", "2026-03-02T04:00:00.000Z",
			},
			want: url.Values{
				"period1_from": {"2026-03-02T00:00:00.000Z"},
				"period1_to":   {"2026-03-02T04:00:00.000Z"},
				"tab":          {"hrv"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := &cobra.Command{Use: "test"}
			f := addRangeFlags(cmd, tt.mode)
			if err := cmd.Flags().Parse(tt.args); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			got, err := f.query()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("query() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("query() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("query() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestViewFlagsGate(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test"}
	f := addViewFlags(cmd)
	if err := cmd.Flags().Parse([]string{"--view", "histogram,trends", "--view", "histogram"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	gate, err := f.gate()
	if err != nil {
		t.Fatalf("gate() error = %v", err)
	}
	want := map[visibility.View]bool{
		visibility.HeartRate:             false,
		visibility.Histogram:             true,
		visibility.DifferentialHistogram: false,
		visibility.Scatterplot:           false,
		visibility.Trends:                true,
	}
	if diff := cmp.Diff(want, gate.Snapshot()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}

	f.views = []string{"ecg"}
	if _, err := f.gate(); err == nil {
		t.Error("gate() accepted an unknown view")
	}
}
