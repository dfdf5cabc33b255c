package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type sqliteReportRepo struct {
	db  *sql.DB
	now func() time.Time
}

var _ ReportRepository = (*sqliteReportRepo)(nil)

// NewSQLite expects a database opened with db.Open, which applies the schema.
func NewSQLite(db *sql.DB) *Repository {
	return &Repository{Reports: &sqliteReportRepo{db: db, now: time.Now}}
}

func (r *sqliteReportRepo) Save(ctx context.Context, rep *Report) error {
	if err := prepare(rep, r.now()); err != nil {
		return err
	}
	p, err := encodePayload(rep)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO reports (
			id, user_id, name,
			period1_from, period1_to, period2_from, period2_to,
			period1_json, period2_json, delta_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.UserID, rep.Name,
		rep.Period1.From.UTC(), rep.Period1.To.UTC(), rep.Period2.From.UTC(), rep.Period2.To.UTC(),
		nullString(p.stats1), nullString(p.stats2), nullString(p.delta), rep.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

const sqliteSelect = `
	SELECT id, user_id, name,
		period1_from, period1_to, period2_from, period2_to,
		period1_json, period2_json, delta_json, created_at
	FROM reports`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner) (*Report, error) {
	var (
		rep                  Report
		stats1, stats2, diff sql.NullString
	)
	err := row.Scan(
		&rep.ID, &rep.UserID, &rep.Name,
		&rep.Period1.From, &rep.Period1.To, &rep.Period2.From, &rep.Period2.To,
		&stats1, &stats2, &diff, &rep.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p := payload{stats1: []byte(stats1.String), stats2: []byte(stats2.String), delta: []byte(diff.String)}
	if err := p.decodeInto(&rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *sqliteReportRepo) Get(ctx context.Context, id string) (*Report, error) {
	rep, err := scanSQLite(r.db.QueryRowContext(ctx, sqliteSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return rep, nil
}

func (r *sqliteReportRepo) List(ctx context.Context, userID string, limit int) ([]Report, error) {
	rows, err := r.db.QueryContext(ctx,
		sqliteSelect+` WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, pageSize(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Report
	for rows.Next() {
		rep, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		out = append(out, *rep)
	}
	return out, rows.Err()
}

func (r *sqliteReportRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(b []byte) sql.NullString {
	return sql.NullString{String: string(b), Valid: b != nil}
}
