package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/JonMunkholm/krotoncheck/internal/report"
)

// Memory is a Store held in process memory.
type Memory struct {
	mu      sync.RWMutex
	reports map[string]*report.Report
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{reports: make(map[string]*report.Report)}
}

func (m *Memory) Save(_ context.Context, r *report.Report) error {
	cp := *r
	cp.Problems = slices.Clone(r.Problems)

	m.mu.Lock()
	m.reports[r.Season] = &cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) Latest(_ context.Context, season string) (*report.Report, error) {
	m.mu.RLock()
	r, ok := m.reports[season]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: season %s", ErrNotFound, season)
	}
	cp := *r
	cp.Problems = slices.Clone(r.Problems)
	return &cp, nil
}

func (m *Memory) Summaries(_ context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]Summary, 0, len(m.reports))
	for _, r := range m.reports {
		res = append(res, summarize(r))
	}
	slices.SortFunc(res, func(a, b Summary) int { return strings.Compare(a.Season, b.Season) })
	return res, nil
}

func (m *Memory) Close() error { return nil }
