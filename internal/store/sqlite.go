package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/JonMunkholm/krotoncheck/internal/report"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS reports (
	season     TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	total      INTEGER NOT NULL,
	active     INTEGER NOT NULL,
	problems   TEXT NOT NULL
)`

// SQLite stores reports in a single SQLite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create reports table: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Save(ctx context.Context, r *report.Report) error {
	problems, err := encodeProblems(r.Problems)
	if err != nil {
		return err
	}
	sum := summarize(r)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (season, run_id, created_at, total, active, problems)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (season) DO UPDATE SET
			run_id = excluded.run_id,
			created_at = excluded.created_at,
			total = excluded.total,
			active = excluded.active,
			problems = excluded.problems`,
		sum.Season, sum.RunID.String(), sum.CreatedAt.UTC().Format(time.RFC3339Nano),
		sum.Total, sum.Active, string(problems),
	)
	if err != nil {
		return fmt.Errorf("save report %s: %w", r.Season, err)
	}
	return nil
}

func (s *SQLite) Latest(ctx context.Context, season string) (*report.Report, error) {
	var runID, createdAt, problems string
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, created_at, problems FROM reports WHERE season = ?`,
		season,
	).Scan(&runID, &createdAt, &problems)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: season %s", ErrNotFound, season)
	}
	if err != nil {
		return nil, fmt.Errorf("load report %s: %w", season, err)
	}

	r := &report.Report{Season: season}
	if r.RunID, r.CreatedAt, err = parseMeta(runID, createdAt); err != nil {
		return nil, fmt.Errorf("load report %s: %w", season, err)
	}
	if r.Problems, err = decodeProblems([]byte(problems)); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *SQLite) Summaries(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT season, run_id, created_at, total, active FROM reports ORDER BY season`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	res := make([]Summary, 0)
	for rows.Next() {
		var sum Summary
		var runID, createdAt string
		if err := rows.Scan(&sum.Season, &runID, &createdAt, &sum.Total, &sum.Active); err != nil {
			return nil, fmt.Errorf("list reports: %w", err)
		}
		if sum.RunID, sum.CreatedAt, err = parseMeta(runID, createdAt); err != nil {
			return nil, fmt.Errorf("list reports: %w", err)
		}
		res = append(res, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return res, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func parseMeta(runID, createdAt string) (uuid.UUID, time.Time, error) {
	id, err := uuid.Parse(runID)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("run_id: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("created_at: %w", err)
	}
	return id, at, nil
}
