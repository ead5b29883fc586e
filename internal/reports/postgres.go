package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates phishing_reports when it does not exist yet.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS phishing_reports (
	report_id  TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	url        TEXT NOT NULL,
	email      TEXT,
	reason     TEXT NOT NULL,
	status     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_phishing_reports_user ON phishing_reports(user_id, created_at DESC)`,
}

// Postgres is a Repository over a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to url and ensures the table exists.
func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to PostgreSQL: %w", err)
	}
	for _, st := range Schema {
		if _, err := pool.Exec(ctx, st); err != nil {
			pool.Close()
			return nil, fmt.Errorf("create phishing_reports: %w", err)
		}
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() { p.pool.Close() }

func (p *Postgres) Insert(ctx context.Context, r Report) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO phishing_reports (report_id, user_id, url, email, reason, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ReportID, r.UserID, r.URL,
		pgtype.Text{String: r.Email, Valid: r.Email != ""},
		r.Reason, r.Status,
		pgtype.Timestamptz{Time: r.CreatedAt, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

const selectColumns = `report_id, user_id, url, email, reason, status, created_at`

func (p *Postgres) FindByID(ctx context.Context, userID, reportID string) (Report, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM phishing_reports WHERE report_id = $1 AND user_id = $2`,
		reportID, userID)
	r, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Report{}, ErrNotFound
	}
	if err != nil {
		return Report{}, fmt.Errorf("find report: %w", err)
	}
	return r, nil
}

func (p *Postgres) ListByUser(ctx context.Context, userID string) ([]Report, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM phishing_reports WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanReport(row pgx.Row) (Report, error) {
	var (
		r       Report
		email   pgtype.Text
		created pgtype.Timestamptz
	)
	if err := row.Scan(&r.ReportID, &r.UserID, &r.URL, &email, &r.Reason, &r.Status, &created); err != nil {
		return Report{}, err
	}
	r.Email = email.String
	r.CreatedAt = created.Time
	return r, nil
}
