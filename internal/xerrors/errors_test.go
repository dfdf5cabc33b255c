package xerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type timeoutErr struct{}

func (timeoutErr) Error() string { return "i/o timeout" }
func (timeoutErr) Timeout() bool { return true }

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Class
	}{
		{name: "nil", err: nil, want: ClassNone},
		{name: "session expired", err: fmt.Errorf("get stats: %w", ErrSessionExpired), want: ClassAuth},
		{name: "401 api error", err: &APIError{StatusCode: http.StatusUnauthorized}, want: ClassAuth},
		{name: "business error", err: &APIError{StatusCode: http.StatusBadRequest, Code: CodeInsufficientData}, want: ClassBusiness},
		{name: "network error", err: &NetworkError{Op: "GET /v1/rr-intervals", Err: errors.New("connection refused")}, want: ClassNetwork},
		{name: "canceled", err: fmt.Errorf("wrapped: %w", context.Canceled), want: ClassCanceled},
		{name: "undecodable response", err: &ResponseError{Op: "GET /v1/rr-intervals", Err: errors.New("invalid character")}, want: ClassBusiness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "unusable response",
			err:  fmt.Errorf("login: %w", &ResponseError{Op: "/v1/auth/login", Err: errors.New("sign-in response has no access token")}),
			want: "the server sent an unexpected response",
		},
		{
			name: "known code",
			err:  &APIError{StatusCode: http.StatusBadRequest, Code: CodeInsufficientData, Message: "insufficient data for analysis"},
			want: "not enough data in the selected period for analysis",
		},
		{
			name: "unknown code falls back to server message",
			err:  &APIError{StatusCode: http.StatusBadRequest, Code: "SOMETHING_NEW", Message: "new failure"},
			want: "new failure",
		},
		{
			name: "no code falls back to status",
			err:  &APIError{StatusCode: http.StatusServiceUnavailable, Message: "503 Service Unavailable"},
			want: "service temporarily unavailable",
		},
		{
			name: "unmapped status",
			err:  &APIError{StatusCode: http.StatusTeapot},
			want: "server error (418)",
		},
		{
			name: "network",
			err:  &NetworkError{Op: "GET /", Err: errors.New("dial tcp: connection refused")},
			want: "the server is unreachable",
		},
		{
			name: "network timeout",
			err:  &NetworkError{Op: "GET /", Err: timeoutErr{}},
			want: "the server did not respond in time",
		},
		{
			name: "session expired",
			err:  ErrSessionExpired,
			want: "your session has expired, please log in again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Surface
	}{
		{
			name: "duplicate email goes to email field",
			err:  &APIError{StatusCode: http.StatusConflict, Code: CodeEmailAlreadyExists},
			want: Surface{Field: "email", Message: "a user with this email already exists"},
		},
		{
			name: "wrong password goes to password field",
			err:  &APIError{StatusCode: http.StatusBadRequest, Code: CodeWrongPassword},
			want: Surface{Field: "password", Message: "wrong password"},
		},
		{
			name: "unregistered login goes to email field",
			err:  &APIError{StatusCode: http.StatusNotFound, Code: CodeLoginNotRegistered},
			want: Surface{Field: "email", Message: "this email is not registered"},
		},
		{
			name: "validation error names a form field",
			err: &APIError{
				StatusCode: http.StatusBadRequest,
				Code:       CodeValidationFailed,
				Fields:     map[string]any{"email": "invalid email format"},
			},
			want: Surface{Field: "email", Message: "invalid email format"},
		},
		{
			name: "camelCase field maps to the form name",
			err: &APIError{
				StatusCode: http.StatusBadRequest,
				Code:       CodeValidationFailed,
				Fields:     map[string]any{"firstName": nil},
			},
			want: Surface{Field: "first_name", Message: "invalid value"},
		},
		{
			name: "validation error on an unknown field is a toast",
			err: &APIError{
				StatusCode: http.StatusBadRequest,
				Code:       CodeValidationFailed,
				Fields:     map[string]any{"device_id": "bad"},
			},
			want: Surface{Message: genericFormMessage},
		},
		{
			name: "other business error is a toast",
			err:  &APIError{StatusCode: http.StatusInternalServerError, Code: CodeInternalError},
			want: Surface{Message: genericFormMessage},
		},
		{
			name: "network error is a toast",
			err:  &NetworkError{Op: "POST /v1/auth/login", Err: errors.New("refused")},
			want: Surface{Message: "the server is unreachable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, Route(tt.err)); diff != "" {
				t.Errorf("Route() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAPIErrorField(t *testing.T) {
	t.Parallel()

	e := &APIError{Fields: map[string]any{"tempId": "abc", "attempts": float64(3)}}
	if got := e.Field("tempId"); got != "abc" {
		t.Errorf("Field(tempId) = %q, want %q", got, "abc")
	}
	if got := e.Field("attempts"); got != "3" {
		t.Errorf("Field(attempts) = %q, want %q", got, "3")
	}
	if got := e.Field("missing"); got != "" {
		t.Errorf("Field(missing) = %q, want empty", got)
	}
}

func TestFirst(t *testing.T) {
	t.Parallel()

	a, b := errors.New("a"), errors.New("b")
	if got := First(nil, a, b); got != a {
		t.Errorf("First() = %v, want %v", got, a)
	}
	if got := First(nil, nil); got != nil {
		t.Errorf("First() = %v, want nil", got)
	}
}
