package repository

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/oklog/ulid/v2"

	"github.com/garrettladley/rrdash/internal/client/rr"
	"github.com/garrettladley/rrdash/internal/compare"
	"github.com/garrettladley/rrdash/internal/period"
)

var ErrNotFound = errors.New("report not found")

// Report is a saved two-period comparison.
type Report struct {
	ID          string
	UserID      string
	Name        string
	Period1     period.TimeRange
	Period2     period.TimeRange
	Statistics1 *rr.Statistics
	Statistics2 *rr.Statistics
	Delta       *compare.Delta
	CreatedAt   time.Time
}

type ReportRepository interface {
	// Save inserts r, assigning ID and CreatedAt when they are empty.
	Save(ctx context.Context, r *Report) error
	Get(ctx context.Context, id string) (*Report, error)
	// List returns userID's reports, newest first.
	List(ctx context.Context, userID string, limit int) ([]Report, error)
	Delete(ctx context.Context, id string) error
}

type Repository struct {
	Reports ReportRepository
}

const DefaultPageSize = 50

func prepare(r *Report, now time.Time) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.CreatedAt = r.CreatedAt.UTC()
	if r.ID == "" {
		id, err := ulid.New(ulid.Timestamp(r.CreatedAt), rand.Reader)
		if err != nil {
			return fmt.Errorf("failed to generate report id: %w", err)
		}
		r.ID = id.String()
	}
	return nil
}

func pageSize(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	return limit
}

// encodeJSON returns nil for a nil value so the column stays NULL.
func encodeJSON[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return go_json.Marshal(v)
}

func decodeJSON[T any](data []byte) (*T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v T
	if err := go_json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

type payload struct {
	stats1, stats2, delta []byte
}

func encodePayload(r *Report) (payload, error) {
	var (
		p   payload
		err error
	)
	if p.stats1, err = encodeJSON(r.Statistics1); err != nil {
		return p, fmt.Errorf("failed to encode period 1: %w", err)
	}
	if p.stats2, err = encodeJSON(r.Statistics2); err != nil {
		return p, fmt.Errorf("failed to encode period 2: %w", err)
	}
	if p.delta, err = encodeJSON(r.Delta); err != nil {
		return p, fmt.Errorf("failed to encode delta: %w", err)
	}
	return p, nil
}

func (p payload) decodeInto(r *Report) error {
	var err error
	if r.Statistics1, err = decodeJSON[rr.Statistics](p.stats1); err != nil {
		return fmt.Errorf("failed to decode period 1: %w", err)
	}
	if r.Statistics2, err = decodeJSON[rr.Statistics](p.stats2); err != nil {
		return fmt.Errorf("failed to decode period 2: %w", err)
	}
	if r.Delta, err = decodeJSON[compare.Delta](p.delta); err != nil {
		return fmt.Errorf("failed to decode delta: %w", err)
	}
	return nil
}
