package xerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrSessionExpired is returned once the refresh failed and the session was
// torn down. Terminal for the request that observed it.
var ErrSessionExpired = errors.New("session expired - please log in again")

// NetworkError wraps a transport-level failure: the request never produced an
// HTTP response. Callers may retry.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the failure came from a deadline or client timeout.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// ResponseError is a response that arrived but cannot be used: a body that
// does not decode, or one missing a required value.
type ResponseError struct {
	Op  string
	Err error
}

func (e *ResponseError) Error() string {
	return "unexpected response: " + e.Op + ": " + e.Err.Error()
}

func (e *ResponseError) Unwrap() error { return e.Err }

// APIError is the structured error envelope returned by the API:
// {"message": "...", "error": "<CODE>", "fields": {...}}.
type APIError struct {
	StatusCode int
	Code       Code
	Message    string
	Fields     map[string]any
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error: %d %s", e.StatusCode, e.Message)
}

// Field returns a string field from the envelope, e.g. "tempId".
func (e *APIError) Field(name string) string {
	if e.Fields == nil {
		return ""
	}
	switch v := e.Fields[name].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func AsAPIError(err error) *APIError {
	var e *APIError
	if errors.As(err, &e) {
		return e
	}
	return nil
}

func HasCode(err error, code Code) bool {
	e := AsAPIError(err)
	return e != nil && e.Code == code
}

type Class uint8

const (
	ClassNone Class = iota
	ClassNetwork
	ClassAuth
	ClassBusiness
	ClassCanceled
)

func (c Class) String() string {
	switch c {
	case ClassNetwork:
		return "network"
	case ClassAuth:
		return "auth"
	case ClassBusiness:
		return "business"
	case ClassCanceled:
		return "canceled"
	default:
		return "none"
	}
}

func Classify(err error) Class {
	if err == nil {
		return ClassNone
	}
	if errors.Is(err, ErrSessionExpired) {
		return ClassAuth
	}
	if errors.Is(err, context.Canceled) {
		return ClassCanceled
	}
	if e := AsAPIError(err); e != nil {
		if e.IsUnauthorized() {
			return ClassAuth
		}
		return ClassBusiness
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return ClassBusiness
	}
	// anything else failed before a usable response arrived
	return ClassNetwork
}

// First returns the first non-nil error, the one shown in a combined error surface.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Surface says where an error belongs in a form: next to a field, or as a toast.
type Surface struct {
	Field   string
	Message string
}

func (s Surface) IsField() bool { return s.Field != "" }

var fieldCodes = map[Code]Surface{
	CodeEmailAlreadyExists: {Field: "email", Message: "a user with this email already exists"},
	CodeLoginNotRegistered: {Field: "email", Message: "this email is not registered"},
	CodeWrongPassword:      {Field: "password", Message: "wrong password"},
}

const genericFormMessage = "something went wrong, please try again later"

// formFields are the auth form inputs, in display order. The API may name
// them in camelCase.
var formFields = []struct{ name, alias string }{
	{"email", "email"},
	{"password", "password"},
	{"first_name", "firstName"},
	{"second_name", "secondName"},
	{"temp_id", "tempId"},
}

// validationField picks the first form field a validation error names.
func validationField(e *APIError) (Surface, bool) {
	if e.Code != CodeValidationFailed && e.Code != CodeInvalidParams {
		return Surface{}, false
	}
	for _, f := range formFields {
		for _, key := range []string{f.name, f.alias} {
			if _, ok := e.Fields[key]; !ok {
				continue
			}
			msg := e.Field(key)
			if msg == "" {
				msg = "invalid value"
			}
			return Surface{Field: f.name, Message: msg}, true
		}
	}
	return Surface{}, false
}

// Route maps an error from an auth form to a field error or a toast.
func Route(err error) Surface {
	if e := AsAPIError(err); e != nil {
		if s, ok := fieldCodes[e.Code]; ok {
			return s
		}
		if s, ok := validationField(e); ok {
			return s
		}
		if e.Code == CodeInvalidTelegramHash {
			return Surface{Message: Message(err)}
		}
		return Surface{Message: genericFormMessage}
	}
	return Surface{Message: Message(err)}
}

// Message renders err for display.
func Message(err error) string {
	if err == nil {
		return "unknown error"
	}
	if errors.Is(err, ErrSessionExpired) {
		return "your session has expired, please log in again"
	}
	if errors.Is(err, context.Canceled) {
		return "request canceled"
	}

	if e := AsAPIError(err); e != nil {
		if msg, ok := codeMessages[e.Code]; ok {
			return msg
		}
		if e.Message != "" && e.Code != "" {
			return e.Message
		}
		return statusMessage(e.StatusCode)
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return "the server sent an unexpected response"
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "the server did not respond in time"
		}
		return "the server is unreachable"
	}

	return strings.TrimSpace(err.Error())
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusUnauthorized:
		return "authorization required"
	case http.StatusForbidden:
		return "access denied"
	case http.StatusNotFound:
		return "data not found"
	case http.StatusConflict:
		return "data conflict"
	case http.StatusTooManyRequests:
		return "too many requests"
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return fmt.Sprintf("server error (%d)", status)
	}
}
