package reauth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/garrettladley/rrdash/internal/metrics"
	"github.com/garrettladley/rrdash/internal/xerrors"
	"github.com/garrettladley/rrdash/internal/xslog"
)

type fakeSession struct {
	mu      sync.Mutex
	token   string
	sets    int
	logouts int
}

func (s *fakeSession) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.sets++
}

func (s *fakeSession) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.logouts++
}

func (s *fakeSession) counts() (sets, logouts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets, s.logouts
}

type countingNavigator struct{ n atomic.Int32 }

func (c *countingNavigator) NavigateToLogin() { c.n.Add(1) }

// tokenServer accepts only the given bearer token on every path.
func tokenServer(t *testing.T, valid *atomic.Value, seen *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			seen.Add(1)
		}
		want, _ := valid.Load().(string)
		if r.Header.Get("Authorization") != "Bearer "+want {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"UNAUTHORIZED","message":"unauthorized"}`)
			return
		}
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, c *http.Client, ctx context.Context, url string) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	return c.Do(req)
}

func TestConcurrent401sShareOneRefresh(t *testing.T) {
	t.Parallel()

	const n = 8

	var valid atomic.Value
	valid.Store("fresh")
	var unauthorized atomic.Int32
	allFailed := make(chan struct{})
	var closeOnce sync.Once

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			if unauthorized.Add(1) == n {
				closeOnce.Do(func() { close(allFailed) })
			}
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	var refreshes atomic.Int32
	refresher := RefreshFunc(func(ctx context.Context) (string, error) {
		refreshes.Add(1)
		select {
		case <-allFailed:
		case <-time.After(5 * time.Second):
		}
		return "fresh", nil
	})

	sess := &fakeSession{token: "stale"}
	m := metrics.NewTransport()
	client := &http.Client{Transport: New(http.DefaultTransport, sess, refresher, WithLogger(xslog.Discard()), WithMetrics(m))}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := get(t, client, context.Background(), srv.URL+"/v1/rr-intervals/analytics/statistics")
			if err != nil {
				errs <- err
				return
			}
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode != http.StatusOK {
				errs <- errors.New(resp.Status)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("request failed: %v", err)
	}
	if got := refreshes.Load(); got != 1 {
		t.Errorf("refresh calls = %d, want 1", got)
	}
	if sets, logouts := sess.counts(); sets != 1 || logouts != 0 {
		t.Errorf("session mutations = %d sets, %d logouts, want 1 set, 0 logouts", sets, logouts)
	}
	if got := testutil.ToFloat64(m.RetryCounter()); got != n {
		t.Errorf("retries = %v, want %d", got, n)
	}
}

func TestFailedRefreshFailsAllWaiters(t *testing.T) {
	t.Parallel()

	const n = 5

	var unauthorized atomic.Int32
	allFailed := make(chan struct{})
	var closeOnce sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if unauthorized.Add(1) == n {
			closeOnce.Do(func() { close(allFailed) })
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	var refreshes atomic.Int32
	refresher := RefreshFunc(func(ctx context.Context) (string, error) {
		refreshes.Add(1)
		select {
		case <-allFailed:
		case <-time.After(5 * time.Second):
		}
		return "", &xerrors.APIError{StatusCode: http.StatusUnauthorized}
	})

	sess := &fakeSession{token: "stale"}
	nav := &countingNavigator{}
	client := &http.Client{Transport: New(http.DefaultTransport, sess, refresher, WithNavigator(nav), WithLogger(xslog.Discard()))}

	var wg sync.WaitGroup
	results := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := get(t, client, context.Background(), srv.URL+"/v1/rr-intervals")
			if resp != nil {
				_ = resp.Body.Close()
			}
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	for err := range results {
		if !errors.Is(err, xerrors.ErrSessionExpired) {
			t.Errorf("request error = %v, want ErrSessionExpired", err)
		}
	}
	if got := refreshes.Load(); got != 1 {
		t.Errorf("refresh calls = %d, want 1", got)
	}
	if _, logouts := sess.counts(); logouts != 1 {
		t.Errorf("logouts = %d, want 1", logouts)
	}
	if got := nav.n.Load(); got != 1 {
		t.Errorf("navigations = %d, want 1", got)
	}
	if tok := sess.AccessToken(); tok != "" {
		t.Errorf("AccessToken() after failed refresh = %q, want empty", tok)
	}
}

func TestRetriesExactlyOnce(t *testing.T) {
	t.Parallel()

	var valid atomic.Value
	valid.Store("server-rejects-everything")
	var hits atomic.Int32
	srv := tokenServer(t, &valid, &hits)

	var refreshes atomic.Int32
	refresher := RefreshFunc(func(ctx context.Context) (string, error) {
		refreshes.Add(1)
		return "fresh", nil
	})

	sess := &fakeSession{token: "stale"}
	client := &http.Client{Transport: New(http.DefaultTransport, sess, refresher, WithLogger(xslog.Discard()))}

	resp, err := get(t, client, t.Context(), srv.URL+"/v1/rr-intervals")
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2", got)
	}
	if got := refreshes.Load(); got != 1 {
		t.Errorf("refresh calls = %d, want 1", got)
	}
	if _, logouts := sess.counts(); logouts != 0 {
		t.Errorf("logouts = %d, want 0", logouts)
	}
}

func TestRetryReplaysBody(t *testing.T) {
	t.Parallel()

	var valid atomic.Value
	valid.Store("fresh")
	srv := tokenServer(t, &valid, nil)

	sess := &fakeSession{token: "stale"}
	refresher := RefreshFunc(func(context.Context) (string, error) { return "fresh", nil })
	client := &http.Client{Transport: New(http.DefaultTransport, sess, refresher, WithLogger(xslog.Discard()))}

	const payload = `{"device_id":"d1","intervals":[{"rr_interval_ms":812}]}`
	// a reader without GetBody forces the transport to buffer
	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, srv.URL+"/v1/rr-intervals/batch", io.NopCloser(strings.NewReader(payload)))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	got, _ := io.ReadAll(resp.Body)
	if string(got) != payload {
		t.Errorf("echoed body = %q, want %q", got, payload)
	}
}

func TestAuthEndpointsAreExempt(t *testing.T) {
	t.Parallel()

	var valid atomic.Value
	valid.Store("unused")
	srv := tokenServer(t, &valid, nil)

	var refreshes atomic.Int32
	refresher := RefreshFunc(func(context.Context) (string, error) {
		refreshes.Add(1)
		return "fresh", nil
	})
	sess := &fakeSession{token: "tok"}
	client := &http.Client{Transport: New(http.DefaultTransport, sess, refresher, WithLogger(xslog.Discard()))}

	resp, err := get(t, client, t.Context(), srv.URL+"/v1/auth/login")
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if got := refreshes.Load(); got != 0 {
		t.Errorf("refresh calls = %d, want 0", got)
	}
}

func TestCanceledWaiterDoesNotCancelRefresh(t *testing.T) {
	t.Parallel()

	var valid atomic.Value
	valid.Store("fresh")
	srv := tokenServer(t, &valid, nil)

	release := make(chan struct{})
	done := make(chan struct{})
	refresher := RefreshFunc(func(ctx context.Context) (string, error) {
		defer close(done)
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "fresh", nil
	})

	sess := &fakeSession{token: "stale"}
	client := &http.Client{Transport: New(http.DefaultTransport, sess, refresher, WithLogger(xslog.Discard()))}

	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error, 1)
	go func() {
		resp, err := get(t, client, ctx, srv.URL+"/v1/rr-intervals")
		if resp != nil {
			_ = resp.Body.Close()
		}
		errCh <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("canceled request error = %v, want context.Canceled", err)
	}

	close(release)
	<-done
	if tok := sess.AccessToken(); tok != "fresh" {
		t.Errorf("AccessToken() = %q, want %q", tok, "fresh")
	}
}

func TestNoTokenSentAfterLogout(t *testing.T) {
	t.Parallel()

	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	sess := &fakeSession{token: "tok"}
	sess.Logout()
	client := &http.Client{Transport: New(http.DefaultTransport, sess, RefreshFunc(func(context.Context) (string, error) { return "", nil }), WithLogger(xslog.Discard()))}

	req, _ := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+"/v1/rr-intervals", nil)
	req.Header.Set("Authorization", "Bearer leftover")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	_ = resp.Body.Close()

	if got, _ := gotAuth.Load().(string); got != "" {
		t.Errorf("Authorization header = %q, want none", got)
	}
}

func TestLate401JoinsFinishedRefresh(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		token       string
		refresh     func(context.Context) (string, error)
		wantErr     error
		wantSets    int
		wantLogouts int
	}{
		{
			name:        "anonymous session, failed refresh",
			token:       "",
			refresh:     func(context.Context) (string, error) { return "", errors.New("no refresh cookie") },
			wantErr:     xerrors.ErrSessionExpired,
			wantLogouts: 1,
		},
		{
			name:     "successful refresh",
			token:    "stale",
			refresh:  func(context.Context) (string, error) { return "fresh", nil },
			wantSets: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var refreshes atomic.Int32
			refresher := RefreshFunc(func(ctx context.Context) (string, error) {
				refreshes.Add(1)
				return tt.refresh(ctx)
			})
			sess := &fakeSession{token: tt.token}
			nav := &countingNavigator{}
			tr := New(http.DefaultTransport, sess, refresher, WithNavigator(nav), WithLogger(xslog.Discard()))

			// both requests went out before the first refresh finished
			gen := tr.generation()
			first, err1 := tr.refresh(t.Context(), gen)
			second, err2 := tr.refresh(t.Context(), gen)

			if got := refreshes.Load(); got != 1 {
				t.Errorf("refresh calls = %d, want 1", got)
			}
			if !errors.Is(err1, tt.wantErr) || !errors.Is(err2, tt.wantErr) {
				t.Errorf("errors = %v, %v, want %v", err1, err2, tt.wantErr)
			}
			if first != second {
				t.Errorf("tokens = %q, %q, want the same", first, second)
			}
			if sets, logouts := sess.counts(); sets != tt.wantSets || logouts != tt.wantLogouts {
				t.Errorf("session mutations = %d sets, %d logouts, want %d, %d", sets, logouts, tt.wantSets, tt.wantLogouts)
			}
			if got := nav.n.Load(); got != int32(tt.wantLogouts) {
				t.Errorf("navigations = %d, want %d", got, tt.wantLogouts)
			}

			// a request sent after the refresh gets its own cycle
			if _, _ = tr.refresh(t.Context(), tr.generation()); refreshes.Load() != 2 {
				t.Errorf("refresh calls after a new send = %d, want 2", refreshes.Load())
			}
		})
	}
}

func TestLogsThroughContextLogger(t *testing.T) {
	t.Parallel()

	var valid atomic.Value
	valid.Store("never")
	srv := tokenServer(t, &valid, nil)

	var buf syncBuffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := xslog.WithLogger(t.Context(), logger)

	sess := &fakeSession{token: "stale"}
	refresher := RefreshFunc(func(context.Context) (string, error) { return "", errors.New("cookie expired") })
	client := &http.Client{Transport: New(http.DefaultTransport, sess, refresher)}

	resp, err := get(t, client, ctx, srv.URL+"/v1/rr-intervals")
	if resp != nil {
		_ = resp.Body.Close()
	}
	if !errors.Is(err, xerrors.ErrSessionExpired) {
		t.Fatalf("error = %v, want ErrSessionExpired", err)
	}
	if out := buf.String(); !strings.Contains(out, "session refresh failed") {
		t.Errorf("context logger did not receive the failure:\n%s", out)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
