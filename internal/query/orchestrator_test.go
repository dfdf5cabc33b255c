package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/rrdash/internal/period"
	"github.com/garrettladley/rrdash/internal/visibility"
	"github.com/garrettladley/rrdash/internal/xslog"
)

var (
	t0       = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	fiveMin  = period.TimeRange{From: t0, To: t0.Add(5 * time.Minute)}
	tenMin   = period.TimeRange{From: t0, To: t0.Add(10 * time.Minute)}
	twoHours = period.TimeRange{From: t0, To: t0.Add(2 * time.Hour)}
)

type counter struct{ n atomic.Int32 }

func (c *counter) fetch(data any) FetchFunc {
	return func(context.Context, period.TimeRange) (any, error) {
		c.n.Add(1)
		return data, nil
	}
}

func newOrchestrator(gate *visibility.Gate, views ...View) *Orchestrator {
	return New(gate, period.DefaultRules(), views, WithLogger(xslog.Discard()))
}

func statuses(o *Orchestrator) map[string]Status {
	out := make(map[string]Status)
	for _, s := range o.States() {
		out[s.View] = s.Status
	}
	return out
}

func TestShouldDispatch(t *testing.T) {
	t.Parallel()

	var c counter
	gate := visibility.New()
	o := newOrchestrator(gate,
		View{Name: "statistics", Kind: period.KindBasicAnalysis, Fetch: c.fetch(1)},
		View{Name: string(visibility.HeartRate), Kind: period.KindDetailedHeartRate, Gated: true, Fetch: c.fetch(2)},
		View{Name: string(visibility.Trends), Kind: period.KindTrends, Gated: true, Fetch: c.fetch(3)},
	)
	o.Commit(fiveMin)

	if o.ShouldDispatch("statistics") {
		t.Fatal("disarmed orchestrator must not dispatch")
	}
	o.Dispatch(context.Background())
	if n := c.n.Load(); n != 0 {
		t.Fatalf("disarmed dispatch ran %d fetches", n)
	}

	o.Arm()
	gate.ShowAll()

	tests := []struct {
		view string
		want bool
	}{
		{view: "statistics", want: true},
		{view: string(visibility.HeartRate), want: true},
		{view: string(visibility.Trends), want: false}, // 5 min is under the trends minimum
		{view: "unknown", want: false},
	}
	for _, tt := range tests {
		if got := o.ShouldDispatch(tt.view); got != tt.want {
			t.Errorf("ShouldDispatch(%q) = %v, want %v", tt.view, got, tt.want)
		}
	}

	gate.Toggle(visibility.HeartRate)
	if o.ShouldDispatch(string(visibility.HeartRate)) {
		t.Error("hidden gated view must not dispatch")
	}
}

func TestDispatchStatuses(t *testing.T) {
	t.Parallel()

	gate := visibility.New()
	gate.Toggle(visibility.Histogram)
	gate.Toggle(visibility.Trends)

	var c counter
	boom := errors.New("boom")
	o := newOrchestrator(gate,
		View{Name: "statistics", Kind: period.KindBasicAnalysis, Fetch: c.fetch("stats")},
		View{Name: string(visibility.HeartRate), Kind: period.KindDetailedHeartRate, Gated: true, Fetch: c.fetch("hr")},
		View{Name: string(visibility.Histogram), Kind: period.KindHistogram, Gated: true, Fetch: func(context.Context, period.TimeRange) (any, error) {
			return nil, boom
		}},
		View{Name: string(visibility.Trends), Kind: period.KindTrends, Gated: true, Fetch: c.fetch([]int{}),
			Empty: func(data any) bool { return len(data.([]int)) == 0 }},
	)
	o.Commit(twoHours)
	o.Arm()

	sum := o.Dispatch(context.Background())

	want := map[string]Status{
		"statistics":                 StatusSuccess,
		string(visibility.HeartRate): StatusHidden,
		string(visibility.Histogram): StatusError,
		string(visibility.Trends):    StatusNoData,
	}
	if diff := cmp.Diff(want, statuses(o)); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(sum.First(), boom) {
		t.Errorf("Summary.First() = %v, want boom", sum.First())
	}
	if sum.IsLoading || sum.IsFetching {
		t.Errorf("settled summary reports activity: %+v", sum)
	}

	gate.Toggle(visibility.HeartRate)
	if got := o.State(string(visibility.HeartRate)).Status; got != StatusInvalid {
		t.Errorf("2h heart rate status = %v, want invalid", got)
	}
	if msg := o.State(string(visibility.HeartRate)).Message; msg != "period too long (120 min). Maximum: 15 minutes." {
		t.Errorf("invalid message = %q", msg)
	}
}

func TestDispatchSkipsCurrentResults(t *testing.T) {
	t.Parallel()

	var c counter
	o := newOrchestrator(nil, View{Name: "statistics", Kind: period.KindBasicAnalysis, Fetch: c.fetch("ok")})
	o.Commit(fiveMin)
	o.Arm()

	o.Dispatch(context.Background())
	o.Dispatch(context.Background())
	if n := c.n.Load(); n != 1 {
		t.Errorf("fetches = %d, want 1 for an unchanged period", n)
	}

	o.Refetch(context.Background())
	if n := c.n.Load(); n != 2 {
		t.Errorf("fetches = %d, want 2 after Refetch", n)
	}

	o.Commit(tenMin)
	o.Dispatch(context.Background())
	if n := c.n.Load(); n != 3 {
		t.Errorf("fetches = %d, want 3 after the period changed", n)
	}
}

func TestRefetchKeepsData(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	o := newOrchestrator(nil, View{Name: "statistics", Kind: period.KindBasicAnalysis,
		Fetch: func(context.Context, period.TimeRange) (any, error) {
			if calls.Add(1) == 2 {
				close(started)
				<-release
				return "second", nil
			}
			return "first", nil
		}})
	o.Commit(fiveMin)
	o.Arm()
	o.Dispatch(context.Background())

	done := make(chan Summary)
	go func() { done <- o.Refetch(context.Background()) }()
	<-started

	st := o.State("statistics")
	if !st.IsFetching() || st.IsLoading() {
		t.Errorf("background refetch: fetching=%v loading=%v", st.IsFetching(), st.IsLoading())
	}
	if st.Status != StatusSuccess || st.Data != "first" {
		t.Errorf("previous data should stay visible, got %v %v", st.Status, st.Data)
	}
	sum := Aggregate(o.States())
	if sum.IsLoading || !sum.IsFetching {
		t.Errorf("Aggregate() = %+v, want fetching without loading", sum)
	}

	close(release)
	<-done
	if got := o.State("statistics").Data; got != "second" {
		t.Errorf("data = %v, want second", got)
	}
}

func TestStaleResultDiscarded(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	o := newOrchestrator(nil, View{Name: "statistics", Kind: period.KindBasicAnalysis,
		Fetch: func(_ context.Context, r period.TimeRange) (any, error) {
			if r.Equal(fiveMin) {
				close(started)
				<-release
				return "five", nil
			}
			return "ten", nil
		}})
	o.Commit(fiveMin)
	o.Arm()

	done := make(chan struct{})
	go func() {
		o.Dispatch(context.Background())
		close(done)
	}()
	<-started

	o.Commit(tenMin)
	close(release)
	<-done

	st := o.State("statistics")
	if st.HasData || st.InFlight {
		t.Fatalf("stale result leaked into state: %+v", st)
	}

	o.Dispatch(context.Background())
	if got := o.State("statistics").Data; got != "ten" {
		t.Errorf("data = %v, want ten", got)
	}
}

func TestHidingCancelsInFlight(t *testing.T) {
	t.Parallel()

	gate := visibility.New()
	gate.Toggle(visibility.Scatterplot)

	started := make(chan struct{})
	var canceled atomic.Bool
	o := newOrchestrator(gate, View{Name: string(visibility.Scatterplot), Kind: period.KindScatterplot, Gated: true,
		Fetch: func(ctx context.Context, _ period.TimeRange) (any, error) {
			close(started)
			<-ctx.Done()
			canceled.Store(true)
			return nil, ctx.Err()
		}})
	o.Commit(fiveMin)
	o.Arm()

	done := make(chan Summary)
	go func() { done <- o.Dispatch(context.Background()) }()
	<-started

	gate.Toggle(visibility.Scatterplot)

	select {
	case sum := <-done:
		if len(sum.Errors) != 0 {
			t.Errorf("hidden view should not surface an error: %+v", sum.Errors)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("dispatch did not return after the view was hidden")
	}
	if !canceled.Load() {
		t.Error("fetch context was not canceled")
	}
	st := o.State(string(visibility.Scatterplot))
	if st.Status != StatusHidden || st.Err != nil || st.InFlight {
		t.Errorf("state after hide = %+v", st)
	}
}

func TestDispatchLimit(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		running int
		peak    int
	)
	fetch := func(context.Context, period.TimeRange) (any, error) {
		mu.Lock()
		running++
		peak = max(peak, running)
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		running--
		mu.Unlock()
		return "ok", nil
	}

	var views []View
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		views = append(views, View{Name: name, Kind: period.KindBasicAnalysis, Fetch: fetch})
	}
	o := New(nil, period.DefaultRules(), views, WithLogger(xslog.Discard()), WithLimit(2))
	o.Commit(fiveMin)
	o.Arm()
	o.Dispatch(context.Background())

	if peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
	for _, s := range o.States() {
		if s.Status != StatusSuccess {
			t.Errorf("%s status = %v", s.View, s.Status)
		}
	}
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	first := errors.New("first")
	second := errors.New("second")

	tests := []struct {
		name   string
		states []State
		want   Summary
	}{
		{name: "empty"},
		{
			name: "loading and fetching",
			states: []State{
				{View: "a", Status: StatusLoading, InFlight: true},
				{View: "b", Status: StatusSuccess, HasData: true, InFlight: true},
			},
			want: Summary{IsLoading: true, IsFetching: true},
		},
		{
			name: "errors in view order",
			states: []State{
				{View: "a", Status: StatusSuccess, HasData: true},
				{View: "b", Status: StatusError, Err: first},
				{View: "c", Status: StatusError, Err: second},
			},
			want: Summary{Errors: []ViewError{{View: "b", Err: first}, {View: "c", Err: second}}},
		},
		{
			name: "hidden and invalid ignored",
			states: []State{
				{View: "a", Status: StatusHidden, Err: first, InFlight: true},
				{View: "b", Status: StatusInvalid, Message: "too short"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Aggregate(tt.states)
			if diff := cmp.Diff(tt.want, got, cmp.Comparer(func(a, b error) bool { return a == b })); diff != "" {
				t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	sum := Aggregate([]State{{View: "b", Status: StatusError, Err: first}, {View: "c", Status: StatusError, Err: second}})
	if sum.First() != first {
		t.Errorf("First() = %v, want first", sum.First())
	}
}
