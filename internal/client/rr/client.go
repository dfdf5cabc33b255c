package rr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/garrettladley/rrdash/internal/metrics"
	"github.com/garrettladley/rrdash/internal/reauth"
	"github.com/garrettladley/rrdash/internal/xcontext"
	"github.com/garrettladley/rrdash/internal/xerrors"
	"github.com/garrettladley/rrdash/internal/xhttp"
	"github.com/garrettladley/rrdash/internal/xslog"
)

// Session is the session state the client reads and updates.
type Session interface {
	reauth.Session
	SetUserID(id string)
}

type Client struct {
	Auth      AuthService
	Analytics AnalyticsService
	Intervals IntervalService
	Devices   DeviceService
	User      UserService

	baseURL    string
	session    Session
	httpClient *http.Client
	logger     *slog.Logger
}

func New(baseURL string, session Session, opts ...Option) *Client {
	cfg := &clientConfig{
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		logger:  cfg.logger,
	}

	var reauthOpts []reauth.Option
	if cfg.logger != nil {
		reauthOpts = append(reauthOpts, reauth.WithLogger(cfg.logger))
	}
	if cfg.navigator != nil {
		reauthOpts = append(reauthOpts, reauth.WithNavigator(cfg.navigator))
	}
	if cfg.metrics != nil {
		reauthOpts = append(reauthOpts, reauth.WithMetrics(cfg.metrics))
	}

	transport := reauth.New(
		xhttp.WrapTransport(cfg.transport),
		session,
		reauth.RefreshFunc(func(ctx context.Context) (string, error) {
			return c.Auth.Refresh(ctx)
		}),
		reauthOpts...,
	)

	clientOpts := []xhttp.ClientOption{
		xhttp.WithTransport(transport),
		xhttp.WithTimeout(cfg.timeout),
	}
	if cfg.jar != nil {
		clientOpts = append(clientOpts, xhttp.WithJar(cfg.jar))
	}
	c.httpClient = xhttp.NewHTTPClient(clientOpts...)

	c.Auth = &authService{client: c}
	c.Analytics = &analyticsService{client: c}
	c.Intervals = &intervalService{client: c}
	c.Devices = &deviceService{client: c}
	c.User = &userService{client: c}

	return c
}

type clientConfig struct {
	logger    *slog.Logger
	timeout   time.Duration
	jar       http.CookieJar
	transport http.RoundTripper
	navigator reauth.Navigator
	metrics   *metrics.Transport
}

type Option func(*clientConfig)

// WithLogger fixes the logger. Without it each call logs through the logger
// carried by its context.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = logger }
}

func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

// WithJar stores the refresh cookie the API sets on login.
func WithJar(jar http.CookieJar) Option {
	return func(cfg *clientConfig) { cfg.jar = jar }
}

// WithTransport replaces the network transport under the auth layer.
func WithTransport(rt http.RoundTripper) Option {
	return func(cfg *clientConfig) { cfg.transport = rt }
}

func WithNavigator(n reauth.Navigator) Option {
	return func(cfg *clientConfig) { cfg.navigator = n }
}

func WithMetrics(m *metrics.Transport) Option {
	return func(cfg *clientConfig) { cfg.metrics = m }
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body any, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	requestID := uuid.NewString()
	ctx = xcontext.SetRequestID(ctx, requestID)
	if c.logger != nil {
		ctx = xslog.WithLogger(ctx, c.logger)
	}
	ctx = xslog.WithAttrs(ctx, xslog.RequestID(requestID))
	logger := xslog.FromContext(ctx)

	var reader io.Reader
	if body != nil {
		data, err := go_json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	xhttp.SetRequestHeaderAcceptJSON(req)
	if body != nil {
		xhttp.SetRequestHeaderContentTypeJSON(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = transportError(method+" "+path, err)
		logger.DebugContext(ctx, "api call failed",
			xslog.Method(method), xslog.Path(path), xslog.ErrorGroup(err))
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	logger.DebugContext(ctx, "api call",
		xslog.Method(method),
		xslog.Path(path),
		xslog.ResponseGroup(resp.StatusCode, time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		apiErr := parseAPIError(resp)
		if e := xerrors.AsAPIError(apiErr); e != nil && e.Code != "" {
			logger.DebugContext(ctx, "api error", xslog.Path(path), xslog.Code(string(e.Code)))
		}
		return apiErr
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return transportError(method+" "+path, fmt.Errorf("failed to read response: %w", err))
		}
		if err := go_json.Unmarshal(data, result); err != nil {
			return &xerrors.ResponseError{Op: method + " " + path, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}

	return nil
}
