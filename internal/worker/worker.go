package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SessionCleaner removes sessions idle for longer than maxIdle.
type SessionCleaner interface {
	CleanupIdle(ctx context.Context, maxIdle time.Duration) (int64, error)
}

// Janitor periodically expires idle sessions.
type Janitor struct {
	store    SessionCleaner
	maxIdle  time.Duration
	interval time.Duration
	logger   *slog.Logger
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewJanitor creates a janitor that removes sessions idle for maxIdle.
func NewJanitor(store SessionCleaner, maxIdle time.Duration, logger *slog.Logger) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		store:    store,
		maxIdle:  maxIdle,
		interval: 10 * time.Minute,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// SetInterval sets the cleanup interval. Call before Start.
func (j *Janitor) SetInterval(interval time.Duration) {
	if interval > 0 {
		j.interval = interval
	}
}

// Start begins periodic cleanup. It returns immediately.
func (j *Janitor) Start(ctx context.Context) {
	j.wg.Add(1)
	go j.run(ctx)
	j.logger.Info("session janitor started", "interval", j.interval, "max_idle", j.maxIdle)
}

// Stop halts the janitor and waits for an in-flight sweep to finish.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
	j.wg.Wait()
	j.logger.Info("session janitor stopped")
}

func (j *Janitor) run(ctx context.Context) {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-j.stop:
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs one cleanup pass and returns the number of sessions removed.
func (j *Janitor) Sweep(ctx context.Context) int64 {
	removed, err := j.store.CleanupIdle(ctx, j.maxIdle)
	if err != nil {
		j.logger.Error("session cleanup failed", "error", err)
		return 0
	}
	if removed > 0 {
		j.logger.Info("expired idle sessions", "count", removed)
	}
	return removed
}
