package compare

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/rrdash/internal/client/rr"
	"github.com/garrettladley/rrdash/internal/location"
	"github.com/garrettladley/rrdash/internal/period"
)

var now = time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

func mustRange(t *testing.T, from, to string) period.TimeRange {
	t.Helper()
	r, err := period.ParseRange(from, to)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

// recordingURL counts writes so seeding can be shown to be side-effect free.
type recordingURL struct {
	*location.Location
	replaces int
}

func (r *recordingURL) Replace(q url.Values) {
	r.replaces++
	r.Location.Replace(q)
}

func TestFromLocation(t *testing.T) {
	t.Parallel()

	day1 := mustRange(t, "2025-01-01T08:00:00Z", "2025-01-01T12:00:00Z")
	defaults := []period.TimeRange{
		period.Last(now, 4*time.Hour),
		period.Last(now, 4*time.Hour).Shift(-24 * time.Hour),
	}

	tests := []struct {
		name  string
		query url.Values
		want  []period.TimeRange
	}{
		{name: "empty", query: url.Values{}, want: defaults},
		{
			name: "first pair well formed",
			query: url.Values{
				"period1_from": {"2025-01-01T08:00:00.000Z"},
				"period1_to":   {"2025-01-01T12:00:00.000Z"},
			},
			want: []period.TimeRange{day1, defaults[1]},
		},
		{
			name: "partial pair falls back whole",
			query: url.Values{
				"period1_from": {"2025-01-01T08:00:00.000Z"},
				"period2_from": {"2025-01-01T08:00:00.000Z"},
				"period2_to":   {"not a time"},
			},
			want: defaults,
		},
		{
			name: "inverted pair falls back",
			query: url.Values{
				"period1_from": {"2025-01-01T12:00:00.000Z"},
				"period1_to":   {"2025-01-01T08:00:00.000Z"},
			},
			want: defaults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FromLocation(tt.query, ModePair, now)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FromLocation() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPanelDefaults(t *testing.T) {
	t.Parallel()

	u := &recordingURL{Location: location.New(PanelPath, nil)}
	c := NewPanel(u, now)

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	if got, want := c.Applied(0), period.Last(now, 5*time.Minute); !got.Equal(want) {
		t.Errorf("Applied(0) = %v, want %v", got, want)
	}
	if u.replaces != 0 {
		t.Errorf("seeding wrote the URL %d times", u.replaces)
	}
	if c.HasUnappliedChanges() {
		t.Error("fresh controller has no unapplied changes")
	}
}

func TestDraftCommitCycle(t *testing.T) {
	t.Parallel()

	loc := location.New(ComparisonPath, url.Values{"tab": {"stats"}})
	c := NewPair(loc, now)
	applied := c.Applied(Period1)

	if err := c.SetDraft(Period1, "2025-01-01T08:00:00Z", "2025-01-01T12:00:00Z"); err != nil {
		t.Fatalf("SetDraft() error: %v", err)
	}

	if !c.HasUnappliedChanges() {
		t.Error("draft edit should be unapplied")
	}
	if !c.Applied(Period1).Equal(applied) {
		t.Error("applied must not move before Commit")
	}

	q := loc.Query()
	if got := q.Get("period1_from"); got != "2025-01-01T08:00:00.000Z" {
		t.Errorf("period1_from = %q", got)
	}
	if got := q.Get("period2_to"); got != period.FormatISO(c.Draft(Period2).To) {
		t.Errorf("period2_to = %q, both drafts should be mirrored", got)
	}
	if q.Get("tab") != "stats" {
		t.Error("unrelated query keys must survive")
	}
	if loc.Back() {
		t.Error("draft sync must replace, not push")
	}

	// reload from the mirrored URL reconstructs the draft
	reloaded := NewPair(loc, now.Add(time.Hour))
	if !reloaded.Draft(Period1).Equal(c.Draft(Period1)) {
		t.Errorf("reloaded draft = %v, want %v", reloaded.Draft(Period1), c.Draft(Period1))
	}

	got := c.Commit()
	if !got[Period1].Equal(c.Draft(Period1)) || c.HasUnappliedChanges() {
		t.Errorf("Commit() = %v, unapplied = %v", got, c.HasUnappliedChanges())
	}
}

func TestSetDraftRejectsInvalid(t *testing.T) {
	t.Parallel()

	loc := location.New(ComparisonPath, nil)
	c := NewPair(loc, now)
	before := c.Slot(Period2)

	tests := []struct {
		name    string
		slot    int
		from    string
		to      string
		wantErr error
	}{
		{name: "inverted", slot: Period2, from: "2025-01-01T12:00:00Z", to: "2025-01-01T08:00:00Z", wantErr: period.ErrInvertedRange},
		{name: "garbage", slot: Period2, from: "soon", to: "2025-01-01T08:00:00Z", wantErr: period.ErrUnparsable},
		{name: "no such slot", slot: 5, from: "2025-01-01T08:00:00Z", to: "2025-01-01T12:00:00Z", wantErr: ErrUnknownSlot},
	}
	for _, tt := range tests {
		if err := c.SetDraft(tt.slot, tt.from, tt.to); !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: SetDraft() error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}

	if c.Slot(Period2) != before {
		t.Error("rejected input changed the slot")
	}
	if len(loc.Query()) != 0 {
		t.Errorf("rejected input touched the URL: %v", loc.Query())
	}
}

func ptr(v float64) *float64 { return &v }

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p1   *rr.Statistics
		p2   *rr.Statistics
		want *Delta
	}{
		{name: "missing period", p1: &rr.Statistics{}, want: nil},
		{
			name: "summary only",
			p1:   &rr.Statistics{Summary: rr.StatisticalSummary{Mean: 800, StdDev: 40, Min: 600, Max: 1000, Count: 200}},
			p2:   &rr.Statistics{Summary: rr.StatisticalSummary{Mean: 820, StdDev: 50, Min: 650, Max: 980, Count: 250}},
			want: &Delta{MeanChange: 2.5, StdDevChange: 25, CountChange: 25, MinChange: 50, MaxChange: -20},
		},
		{
			name: "hrv deltas",
			p1: &rr.Statistics{
				Summary:    rr.StatisticalSummary{Mean: 800, Count: 100},
				HRVMetrics: &rr.HRVMetrics{RMSSD: 40, SDNN: 0, PNN50: 0, TriangularIndex: 10},
			},
			p2: &rr.Statistics{
				Summary:    rr.StatisticalSummary{Mean: 800, Count: 100},
				HRVMetrics: &rr.HRVMetrics{RMSSD: 50, SDNN: 30, PNN50: 0.5, TriangularIndex: 12},
			},
			want: &Delta{
				RMSSDChange:           ptr(25),
				PNN50Change:           ptr(50),
				TriangularIndexChange: ptr(20),
			},
		},
		{
			name: "zero baseline stays finite",
			p1:   &rr.Statistics{},
			p2:   &rr.Statistics{Summary: rr.StatisticalSummary{Mean: 800, Count: 10}},
			want: &Delta{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Compare(tt.p1, tt.p2)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compare() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
