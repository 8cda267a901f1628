// Package store persists finalized reports. Every season keeps its latest
// report; saving a new run replaces the previous one.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/krotoncheck/internal/core"
	"github.com/JonMunkholm/krotoncheck/internal/report"
)

// ErrNotFound is returned for seasons without a stored report.
var ErrNotFound = errors.New("report not found")

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Store keeps the latest report of every season.
type Store interface {
	// Save replaces the stored report of r.Season.
	Save(ctx context.Context, r *report.Report) error
	// Latest returns the stored report of a season or ErrNotFound.
	Latest(ctx context.Context, season string) (*report.Report, error)
	// Summaries lists the stored reports by season key.
	Summaries(ctx context.Context) ([]Summary, error)
	Close() error
}

// Summary describes a stored report without its problems.
type Summary struct {
	Season    string    `json:"season"`
	RunID     uuid.UUID `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Total     int       `json:"total"`
	Active    int       `json:"active"`
}

func summarize(r *report.Report) Summary {
	return Summary{
		Season:    r.Season,
		RunID:     r.RunID,
		CreatedAt: r.CreatedAt,
		Total:     len(r.Problems),
		Active:    len(r.Active()),
	}
}

// Options select and configure a store.
type Options struct {
	Driver string
	URL    string // Connection URL (postgres) or file path (sqlite)

	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Open connects the store selected by opts.Driver and prepares its schema.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverPostgres:
		p, err := OpenPostgres(ctx, opts)
		if err != nil {
			return nil, err
		}
		return p, nil
	case DriverSQLite:
		s, err := OpenSQLite(ctx, opts.URL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverMemory, "":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

func encodeProblems(problems []core.Problem) ([]byte, error) {
	if problems == nil {
		problems = []core.Problem{}
	}
	data, err := json.Marshal(problems)
	if err != nil {
		return nil, fmt.Errorf("encode problems: %w", err)
	}
	return data, nil
}

func decodeProblems(data []byte) ([]core.Problem, error) {
	var problems []core.Problem
	if err := json.Unmarshal(data, &problems); err != nil {
		return nil, fmt.Errorf("decode problems: %w", err)
	}
	return problems, nil
}
