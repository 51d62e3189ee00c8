package core

// import_limiter.go keeps at most one import running per process.
//
// The advisory lock serializes imports across processes. Inside one process
// the HTTP trigger and the scheduler share a limiter, and a second request
// is refused with ErrImportRunning. WaitForDrain blocks shutdown until the
// running import returns.

import (
	"context"
	"sync"
	"time"
)

// ImportLimiter is a one-slot semaphore around Runner.Run.
type ImportLimiter struct {
	slot chan struct{}

	mu      sync.RWMutex
	active  bool
	started time.Time
	last    *Result
	lastErr error
}

// NewImportLimiter returns an idle limiter.
func NewImportLimiter() *ImportLimiter {
	return &ImportLimiter{slot: make(chan struct{}, 1)}
}

// TryAcquire takes the slot without blocking. It returns ErrImportRunning
// when an import is already in progress.
func (l *ImportLimiter) TryAcquire() error {
	select {
	case l.slot <- struct{}{}:
		l.mu.Lock()
		l.active = true
		l.started = time.Now()
		l.mu.Unlock()
		return nil
	default:
		return ErrImportRunning
	}
}

// Release frees the slot and records the outcome of the run.
// Must be called exactly once for each successful TryAcquire.
func (l *ImportLimiter) Release(res *Result, err error) {
	l.mu.Lock()
	l.active = false
	l.last = res
	l.lastErr = err
	l.mu.Unlock()

	<-l.slot
}

// Run executes runner while holding the slot.
func (l *ImportLimiter) Run(ctx context.Context, runner Runner) (*Result, error) {
	if err := l.TryAcquire(); err != nil {
		return nil, err
	}
	res, err := runner.Run(ctx)
	l.Release(res, err)
	return res, err
}

// Active reports whether an import holds the slot.
func (l *ImportLimiter) Active() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until no import is running or ctx is done.
func (l *ImportLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if !l.Active() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ImportLimiterStatus is a snapshot of the limiter.
type ImportLimiterStatus struct {
	Active    bool       `json:"active"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	LastRun   *Result    `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// Status returns the current limiter state for monitoring.
func (l *ImportLimiter) Status() ImportLimiterStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st := ImportLimiterStatus{Active: l.active, LastRun: l.last}
	if l.active {
		started := l.started
		st.StartedAt = &started
	}
	if l.lastErr != nil {
		st.LastError = l.lastErr.Error()
	}
	return st
}
