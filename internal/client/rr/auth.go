package rr

import (
	"context"
	"errors"
	"net/http"

	"github.com/garrettladley/rrdash/internal/validator"
	"github.com/garrettladley/rrdash/internal/xerrors"
)

type authService struct {
	client *Client
}

var _ AuthService = (*authService)(nil)

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	const route = "/v1/auth/login"
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	return s.signIn(ctx, route, req)
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) error {
	const route = "/v1/auth/register"
	if err := validator.Validate(req); err != nil {
		return err
	}
	return s.client.do(ctx, http.MethodPost, route, nil, req, nil)
}

// TelegramLogin fails with NEED_END_REGISTRATION when the Telegram account
// has no user yet; the error's "tempId" field feeds TelegramConfirm.
func (s *authService) TelegramLogin(ctx context.Context, auth TelegramAuth) (*AuthResponse, error) {
	const route = "/v1/auth/telegram/login"
	return s.signIn(ctx, route, auth)
}

func (s *authService) TelegramConfirm(ctx context.Context, req TelegramConfirmRequest) (*AuthResponse, error) {
	const route = "/v1/auth/telegram/confirm-register"
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	return s.signIn(ctx, route, req)
}

// Refresh trades the refresh cookie for a new access token. It does not
// touch the session; the auth transport owns that mutation.
func (s *authService) Refresh(ctx context.Context) (string, error) {
	const route = "/v1/auth/refresh"

	var resp refreshResponse
	if err := s.client.do(ctx, http.MethodPost, route, nil, nil, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", &xerrors.ResponseError{Op: route, Err: errors.New("refresh response has no access token")}
	}
	return resp.AccessToken, nil
}

func (s *authService) signIn(ctx context.Context, route string, body any) (*AuthResponse, error) {
	var resp AuthResponse
	if err := s.client.do(ctx, http.MethodPost, route, nil, body, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &xerrors.ResponseError{Op: route, Err: errors.New("sign-in response has no access token")}
	}

	s.client.session.SetToken(resp.AccessToken)
	if resp.ID != "" {
		s.client.session.SetUserID(resp.ID)
	}
	return &resp, nil
}
