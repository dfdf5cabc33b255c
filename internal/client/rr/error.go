package rr

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/rrdash/internal/xerrors"
)

const maxErrorBody = 1 << 20

func parseAPIError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &xerrors.APIError{
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	var errResp struct {
		Message string         `json:"message"`
		Error   string         `json:"error"`
		Fields  map[string]any `json:"fields"`
	}

	if err := go_json.Unmarshal(body, &errResp); err != nil {
		return &xerrors.APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	msg := errResp.Message
	if msg == "" {
		msg = resp.Status
	}

	return &xerrors.APIError{
		StatusCode: resp.StatusCode,
		Code:       xerrors.Code(errResp.Error),
		Message:    msg,
		Fields:     errResp.Fields,
	}
}

// transportError sorts a failed round trip into the client taxonomy.
// Session teardown and caller cancellation keep their identity; anything else
// means no HTTP response was produced.
func transportError(op string, err error) error {
	if errors.Is(err, xerrors.ErrSessionExpired) || errors.Is(err, context.Canceled) {
		return err
	}
	return &xerrors.NetworkError{Op: op, Err: err}
}
