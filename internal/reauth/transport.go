package reauth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/garrettladley/rrdash/internal/metrics"
	"github.com/garrettladley/rrdash/internal/xerrors"
	"github.com/garrettladley/rrdash/internal/xhttp"
	"github.com/garrettladley/rrdash/internal/xslog"
)

// Session is the part of the session store the transport needs.
type Session interface {
	AccessToken() string
	SetToken(token string)
	Logout()
}

// Refresher exchanges the out-of-band refresh credential for a new access token.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

type RefreshFunc func(ctx context.Context) (string, error)

func (f RefreshFunc) Refresh(ctx context.Context) (string, error) { return f(ctx) }

// Navigator sends the user to the login entry point after the session is torn down.
type Navigator interface {
	NavigateToLogin()
}

type noopNavigator struct{}

func (noopNavigator) NavigateToLogin() {}

const (
	refreshKey  = "refresh"
	authPathSeg = "/v1/auth/"
)

// Transport attaches the access token to every request and, on a 401,
// refreshes the token once for all concurrent callers and replays the
// request exactly once.
type Transport struct {
	base      http.RoundTripper
	session   Session
	refresher Refresher
	navigator Navigator
	logger    *slog.Logger
	metrics   *metrics.Transport
	exempt    func(*http.Request) bool

	group singleflight.Group

	mu sync.Mutex
	// gen counts finished refreshes. A 401 for a request sent under an
	// older generation was already answered by that refresh.
	gen     uint64
	lastErr error
}

var _ http.RoundTripper = (*Transport)(nil)

type Option func(*Transport)

func WithNavigator(n Navigator) Option {
	return func(t *Transport) { t.navigator = n }
}

// WithLogger fixes the logger. Without it the transport logs through the
// logger carried by the request context.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) { t.logger = logger }
}

func WithMetrics(m *metrics.Transport) Option {
	return func(t *Transport) { t.metrics = m }
}

// WithExempt overrides which requests bypass token handling. By default
// every /v1/auth/ endpoint is exempt: a 401 from login means bad credentials,
// and the refresh endpoint must never trigger itself.
func WithExempt(fn func(*http.Request) bool) Option {
	return func(t *Transport) { t.exempt = fn }
}

func New(base http.RoundTripper, session Session, refresher Refresher, opts ...Option) *Transport {
	if base == nil {
		base = xhttp.NewTransport()
	}
	t := &Transport{
		base:      base,
		session:   session,
		refresher: refresher,
		navigator: noopNavigator{},
		exempt:    isAuthEndpoint,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transport) log(ctx context.Context) *slog.Logger {
	if t.logger != nil {
		return t.logger
	}
	return xslog.FromContext(ctx)
}

func isAuthEndpoint(req *http.Request) bool {
	return strings.Contains(req.URL.Path, authPathSeg)
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.exempt(req) {
		return t.base.RoundTrip(req)
	}

	getBody, err := replayableBody(req)
	if err != nil {
		return nil, err
	}

	gen := t.generation()
	resp, err := t.send(req, getBody, t.session.AccessToken())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	discard(resp)

	ctx := req.Context()
	t.log(ctx).DebugContext(ctx, "received 401, refreshing session", xslog.RequestGroup(req))

	token, err := t.refresh(ctx, gen)
	if err != nil {
		return nil, err
	}

	t.metrics.Retry()
	resp, err = t.send(req, getBody, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		// one retry only; the caller sees the second 401
		t.log(ctx).WarnContext(ctx, "request rejected after refresh", xslog.RequestGroup(req))
	}
	return resp, nil
}

func (t *Transport) generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

// settled returns the outcome of the refreshes that finished after gen, if any.
func (t *Transport) settled(gen uint64) (token string, ok bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen == gen {
		return "", false, nil
	}
	if t.lastErr != nil {
		return "", true, t.lastErr
	}
	token = t.session.AccessToken()
	if token == "" {
		// logged out since
		return "", true, xerrors.ErrSessionExpired
	}
	return token, true, nil
}

// refresh returns a fresh access token for a request sent under gen, joining
// any refresh already in flight. The refresh outlives a canceled caller so
// other waiters still get a result.
func (t *Transport) refresh(ctx context.Context, gen uint64) (string, error) {
	if token, ok, err := t.settled(gen); ok {
		if err == nil {
			t.metrics.Refresh(metrics.ResultReused)
		}
		return token, err
	}

	ch := t.group.DoChan(refreshKey, func() (any, error) {
		return t.doRefresh(context.WithoutCancel(ctx), gen)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (t *Transport) doRefresh(ctx context.Context, gen uint64) (string, error) {
	// a flight that finished between our check and DoChan already answered us
	if token, ok, err := t.settled(gen); ok {
		if err == nil {
			t.metrics.Refresh(metrics.ResultReused)
		}
		return token, err
	}

	token, err := t.refresher.Refresh(ctx)
	if err == nil && token == "" {
		err = errors.New("refresh returned an empty access token")
	}
	if err != nil {
		t.log(ctx).WarnContext(ctx, "session refresh failed, logging out", xslog.Error(err))
		t.metrics.Refresh(metrics.ResultFailure)
		t.metrics.Logout()
		t.session.Logout()
		err = fmt.Errorf("%w: %w", xerrors.ErrSessionExpired, err)
		t.finishRefresh(err)
		t.navigator.NavigateToLogin()
		return "", err
	}

	t.session.SetToken(token)
	t.finishRefresh(nil)
	t.metrics.Refresh(metrics.ResultSuccess)
	t.log(ctx).DebugContext(ctx, "session refreshed")
	return token, nil
}

func (t *Transport) finishRefresh(err error) {
	t.mu.Lock()
	t.gen++
	t.lastErr = err
	t.mu.Unlock()
}

func (t *Transport) send(req *http.Request, getBody func() (io.ReadCloser, error), token string) (*http.Response, error) {
	r := req.Clone(req.Context())
	if getBody != nil {
		body, err := getBody()
		if err != nil {
			return nil, fmt.Errorf("failed to replay request body: %w", err)
		}
		r.Body = body
		r.GetBody = getBody
	}
	if token != "" {
		xhttp.SetRequestHeaderBearer(r, token)
	} else {
		r.Header.Del(xhttp.Authorization)
	}
	return t.base.RoundTrip(r)
}

// replayableBody consumes req.Body and returns a function producing copies of it.
func replayableBody(req *http.Request) (func() (io.ReadCloser, error), error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer func() { _ = req.Body.Close() }()

	if req.GetBody != nil {
		return req.GetBody, nil
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to buffer request body: %w", err)
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}, nil
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}
