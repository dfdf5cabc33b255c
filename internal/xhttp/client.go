package xhttp

import (
	"net/http"
	"time"
)

type ClientOption func(*http.Client)

func WithTimeout(d time.Duration) ClientOption {
	return func(c *http.Client) { c.Timeout = d }
}

// WithJar attaches a cookie jar, used for the refresh cookie.
func WithJar(jar http.CookieJar) ClientOption {
	return func(c *http.Client) { c.Jar = jar }
}

// WithTransport replaces the base transport. Tests pass httptest transports here.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *http.Client) { c.Transport = rt }
}

func NewHTTPClient(opts ...ClientOption) *http.Client {
	c := &http.Client{Transport: NewTransport()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
