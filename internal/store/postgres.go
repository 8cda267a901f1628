package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/krotoncheck/internal/report"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS reports (
	season     TEXT PRIMARY KEY,
	run_id     UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	total      INTEGER NOT NULL,
	active     INTEGER NOT NULL,
	problems   JSONB NOT NULL
)`

// Postgres stores reports in PostgreSQL, problems as JSONB.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool with the limits of opts and creates the
// reports table if needed.
func OpenPostgres(ctx context.Context, opts Options) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if opts.MaxConns > 0 {
		poolConfig.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns > 0 {
		poolConfig.MinConns = int32(opts.MinConns)
	}
	if opts.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	p := NewPostgres(pool)
	if err := p.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the reports table.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create reports table: %w", err)
	}
	return nil
}

func (p *Postgres) Save(ctx context.Context, r *report.Report) error {
	problems, err := encodeProblems(r.Problems)
	if err != nil {
		return err
	}
	s := summarize(r)

	_, err = p.pool.Exec(ctx, `
		INSERT INTO reports (season, run_id, created_at, total, active, problems)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (season) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			created_at = EXCLUDED.created_at,
			total = EXCLUDED.total,
			active = EXCLUDED.active,
			problems = EXCLUDED.problems`,
		s.Season, s.RunID, s.CreatedAt, s.Total, s.Active, problems,
	)
	if err != nil {
		return fmt.Errorf("save report %s: %w", r.Season, err)
	}
	return nil
}

func (p *Postgres) Latest(ctx context.Context, season string) (*report.Report, error) {
	r := &report.Report{}
	var problems []byte
	err := p.pool.QueryRow(ctx,
		`SELECT season, run_id, created_at, problems FROM reports WHERE season = $1`,
		season,
	).Scan(&r.Season, &r.RunID, &r.CreatedAt, &problems)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: season %s", ErrNotFound, season)
	}
	if err != nil {
		return nil, fmt.Errorf("load report %s: %w", season, err)
	}

	if r.Problems, err = decodeProblems(problems); err != nil {
		return nil, err
	}
	return r, nil
}

func (p *Postgres) Summaries(ctx context.Context) ([]Summary, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT season, run_id, created_at, total, active FROM reports ORDER BY season`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	res := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.Season, &s.RunID, &s.CreatedAt, &s.Total, &s.Active); err != nil {
			return nil, fmt.Errorf("list reports: %w", err)
		}
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return res, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
