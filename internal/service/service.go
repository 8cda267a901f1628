// Package service runs checks of configured seasons and keeps their reports:
// load the snapshot, build the repository, run every registered check,
// finalize and store the report.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/JonMunkholm/krotoncheck/internal/core"
	"github.com/JonMunkholm/krotoncheck/internal/ingest"
	"github.com/JonMunkholm/krotoncheck/internal/logging"
	"github.com/JonMunkholm/krotoncheck/internal/report"
	"github.com/JonMunkholm/krotoncheck/internal/store"
)

// CheckTimeout is the maximum duration of one season check.
var CheckTimeout = 5 * time.Minute

// ErrCheckRunning is returned when a season is already being checked.
var ErrCheckRunning = errors.New("check already running")

// Seasons looks up season definitions; *season.Catalog implements it.
type Seasons interface {
	List() ([]*core.Season, error)
	Get(key string) (*core.Season, error)
}

// LoadFunc reads the raw tables of a snapshot directory.
type LoadFunc func(ctx context.Context, dir string) (core.RawTables, error)

// Config configures a Service.
type Config struct {
	Ingest ingest.Options
	Report report.Options

	MaxConcurrent int           // Parallel checks (default: DefaultMaxConcurrentChecks)
	MaxWait       time.Duration // Wait for a free slot (default: DefaultMaxWaitTime)
}

// Service checks seasons and serves their stored reports.
type Service struct {
	seasons Seasons
	store   store.Store
	cfg     Config
	load    LoadFunc
	limiter *CheckLimiter

	mu      sync.Mutex
	running map[string]bool
}

// Option customizes a Service.
type Option func(*Service)

// WithLoader replaces snapshot loading from disk.
func WithLoader(load LoadFunc) Option {
	return func(s *Service) { s.load = load }
}

// New creates a Service. Snapshots are read with ingest.Load unless
// WithLoader is given.
func New(seasons Seasons, st store.Store, cfg Config, opts ...Option) *Service {
	s := &Service{
		seasons: seasons,
		store:   st,
		cfg:     cfg,
		limiter: NewCheckLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		running: make(map[string]bool),
	}
	s.load = func(ctx context.Context, dir string) (core.RawTables, error) {
		return ingest.Load(ctx, dir, cfg.Ingest)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check loads the snapshot of a season and returns its finalized report
// without storing it.
func (s *Service) Check(ctx context.Context, season *core.Season) (*report.Report, error) {
	raw, err := s.load(ctx, season.DataDir)
	if err != nil {
		return nil, fmt.Errorf("load season %s: %w", season.Key, err)
	}
	return Evaluate(season, raw, s.cfg.Report)
}

// Evaluate builds the repository of raw tables, runs every registered check
// and finalizes the result.
func Evaluate(season *core.Season, raw core.RawTables, opts report.Options) (*report.Report, error) {
	repo, err := core.Build(raw)
	if err != nil {
		return nil, fmt.Errorf("build season %s: %w", season.Key, err)
	}
	r, err := report.Finalize(season, repo, core.Run(season, repo, core.All()...), opts)
	if err != nil {
		return nil, fmt.Errorf("check season %s: %w", season.Key, err)
	}
	return r, nil
}

// Recheck checks the season with the given key and stores the report.
func (s *Service) Recheck(ctx context.Context, key string) (*report.Report, error) {
	season, err := s.seasons.Get(key)
	if err != nil {
		return nil, err
	}

	if !s.begin(key) {
		return nil, fmt.Errorf("recheck %s: %w", key, ErrCheckRunning)
	}
	defer s.end(key)

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("recheck %s: %w", key, err)
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	log := logging.WithFields(ctx, "season", key)
	start := time.Now()

	r, err := s.Check(ctx, season)
	if err != nil {
		log.Error("check failed", "error", err, "code", core.MapError(err).Code)
		return nil, err
	}
	if err := s.store.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("recheck %s: %w", key, err)
	}

	log.Info("season checked",
		"run_id", r.RunID,
		"problems", len(r.Problems),
		"active", len(r.Active()),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return r, nil
}

// RecheckAll rechecks every configured season in turn. A failing season is
// logged and does not stop the others; the first error is returned.
func (s *Service) RecheckAll(ctx context.Context) error {
	seasons, err := s.seasons.List()
	if err != nil {
		return err
	}

	var first error
	for _, season := range seasons {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.Recheck(ctx, season.Key); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *Service) begin(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[key] {
		return false
	}
	s.running[key] = true
	return true
}

func (s *Service) end(key string) {
	s.mu.Lock()
	delete(s.running, key)
	s.mu.Unlock()
}

// SeasonStatus is a configured season with its stored report, if any.
type SeasonStatus struct {
	Key     string         `json:"key"`
	Name    string         `json:"name,omitempty"`
	Running bool           `json:"running"`
	Report  *store.Summary `json:"report,omitempty"`
}

// Seasons lists every configured season.
func (s *Service) Seasons(ctx context.Context) ([]SeasonStatus, error) {
	seasons, err := s.seasons.List()
	if err != nil {
		return nil, err
	}
	sums, err := s.store.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]*store.Summary, len(sums))
	for i := range sums {
		byKey[sums[i].Season] = &sums[i]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]SeasonStatus, len(seasons))
	for i, season := range seasons {
		res[i] = SeasonStatus{
			Key:     season.Key,
			Name:    season.Name,
			Running: s.running[season.Key],
			Report:  byKey[season.Key],
		}
	}
	return res, nil
}

// Latest returns the stored report of a configured season.
func (s *Service) Latest(ctx context.Context, key string) (*report.Report, error) {
	if _, err := s.seasons.Get(key); err != nil {
		return nil, err
	}
	return s.store.Latest(ctx, key)
}

// Colors returns the stored report of a season filtered for a receiver and
// grouped by color, region and group.
func (s *Service) Colors(ctx context.Context, key string, receiver core.Receiver) ([]report.ColorGroup, error) {
	r, err := s.Latest(ctx, key)
	if err != nil {
		return nil, err
	}
	return report.ColorRender(report.FilterFor(r.Problems, receiver), s.cfg.Report), nil
}

// LimiterStatus reports the state of the check slots.
func (s *Service) LimiterStatus() CheckLimiterStatus {
	return s.limiter.Status()
}

// WaitForChecks blocks until running checks complete or ctx is done.
func (s *Service) WaitForChecks(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
