package rr

import (
	"context"
	"net/http"
	"net/url"
)

type userService struct {
	client *Client
}

var _ UserService = (*userService)(nil)

func (s *userService) Get(ctx context.Context) (*User, error) {
	const route = "/v1/user"

	var user User
	if err := s.client.do(ctx, http.MethodGet, route, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) Settings(ctx context.Context) (*Settings, error) {
	const route = "/v1/user/setting"

	var settings Settings
	if err := s.client.do(ctx, http.MethodGet, route, nil, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

type deviceService struct {
	client *Client
}

var _ DeviceService = (*deviceService)(nil)

func (s *deviceService) List(ctx context.Context) ([]Device, error) {
	const route = "/v1/user/devices"

	var resp struct {
		Devices []Device `json:"devices"`
	}
	if err := s.client.do(ctx, http.MethodGet, route, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Devices, nil
}

func (s *deviceService) Delete(ctx context.Context, id string) error {
	route := "/v1/user/devices/" + url.PathEscape(id)
	return s.client.do(ctx, http.MethodDelete, route, nil, nil, nil)
}
