package rr

import (
	"context"
	"net/http"
)

type intervalService struct {
	client *Client
}

var _ IntervalService = (*intervalService)(nil)

func (s *intervalService) List(ctx context.Context, params *IntervalParams) (*IntervalsResponse, error) {
	const route = "/v1/rr-intervals"

	var resp IntervalsResponse
	if err := s.client.do(ctx, http.MethodGet, route, params.values(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
