package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresReportRepo struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ ReportRepository = (*postgresReportRepo)(nil)

// NewPostgres expects the schema from migrations/postgres to be applied.
func NewPostgres(pool *pgxpool.Pool) *Repository {
	return &Repository{Reports: &postgresReportRepo{pool: pool, now: time.Now}}
}

func (r *postgresReportRepo) Save(ctx context.Context, rep *Report) error {
	if err := prepare(rep, r.now()); err != nil {
		return err
	}
	p, err := encodePayload(rep)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO reports (
			id, user_id, name,
			period1_from, period1_to, period2_from, period2_to,
			period1_json, period2_json, delta_json, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rep.ID, rep.UserID, rep.Name,
		rep.Period1.From, rep.Period1.To, rep.Period2.From, rep.Period2.To,
		p.stats1, p.stats2, p.delta, rep.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

const postgresSelect = `
	SELECT id, user_id, name,
		period1_from, period1_to, period2_from, period2_to,
		period1_json, period2_json, delta_json, created_at
	FROM reports`

func scanPostgres(row pgx.Row) (*Report, error) {
	var (
		rep Report
		p   payload
	)
	err := row.Scan(
		&rep.ID, &rep.UserID, &rep.Name,
		&rep.Period1.From, &rep.Period1.To, &rep.Period2.From, &rep.Period2.To,
		&p.stats1, &p.stats2, &p.delta, &rep.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := p.decodeInto(&rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *postgresReportRepo) Get(ctx context.Context, id string) (*Report, error) {
	rep, err := scanPostgres(r.pool.QueryRow(ctx, postgresSelect+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return rep, nil
}

func (r *postgresReportRepo) List(ctx context.Context, userID string, limit int) ([]Report, error) {
	rows, err := r.pool.Query(ctx,
		postgresSelect+` WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		userID, pageSize(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		rep, err := scanPostgres(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		out = append(out, *rep)
	}
	return out, rows.Err()
}

func (r *postgresReportRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
