package service

// limiter.go bounds the number of season checks running at once. A check
// holds the whole snapshot and repository in memory, so parallel rechecks
// triggered over HTTP and by the scheduler share a fixed number of slots.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyChecks is returned when no check slot frees up within the wait
// time.
var ErrTooManyChecks = errors.New("too many concurrent checks, please try again later")

// DefaultMaxConcurrentChecks is the default number of check slots.
const DefaultMaxConcurrentChecks = 2

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// CheckLimiter is a semaphore of check slots.
type CheckLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.RWMutex
	active int
}

// NewCheckLimiter creates a limiter with maxConcurrent slots.
func NewCheckLimiter(maxConcurrent int, maxWait time.Duration) *CheckLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentChecks
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &CheckLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting at most the limiter's wait time. The caller
// must Release the slot.
func (l *CheckLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-timer.C:
		return ErrTooManyChecks
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *CheckLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	<-l.slots
}

// ActiveCount returns the number of running checks.
func (l *CheckLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until no check is running or ctx is done.
func (l *CheckLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// CheckLimiterStatus is a snapshot of the limiter.
type CheckLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *CheckLimiter) Status() CheckLimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return CheckLimiterStatus{
		Active:        active,
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
