package xhttp

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/garrettladley/rrdash/internal/version"
	"github.com/garrettladley/rrdash/internal/xcontext"
)

type rrdashTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*rrdashTransport)(nil)

func (t *rrdashTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set(UserAgent, version.UserAgent())
	req.Header.Set(version.Header, version.Get())

	if req.Header.Get(XRequestID) == "" {
		requestID, ok := xcontext.GetRequestID(req.Context())
		if !ok {
			requestID = uuid.NewString()
		}
		SetRequestHeaderRequestID(req, requestID)
	}
	if sessionID, ok := xcontext.GetSessionID(req.Context()); ok {
		SetRequestHeaderSessionID(req, sessionID)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

// NewTransport returns an http.RoundTripper with standard rrdash headers.
func NewTransport() http.RoundTripper {
	return WrapTransport(http.DefaultTransport)
}

// WrapTransport adds the standard rrdash headers on top of base.
func WrapTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &rrdashTransport{base: base}
}
