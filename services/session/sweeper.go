package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSweepInterval is how often idle sessions are looked for.
const DefaultSweepInterval = 1 * time.Minute

// Sweeper evicts idle sessions on a fixed period, independent of traffic.
type Sweeper struct {
	store    *Store
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewSweeper creates a sweeper for store. A non-positive interval uses DefaultSweepInterval.
func NewSweeper(store *Store, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		logger:   logger.With(zap.String("component", "session.sweeper")),
	}
}

// Start launches the sweep loop. Starting a running sweeper is a no-op.
func (w *Sweeper) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}
	sweepCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.running = true

	go w.run(sweepCtx)
}

// Stop ends the loop and waits for it to exit.
func (w *Sweeper) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	cancel()
	<-done
}

// IsRunning reports whether the loop is active.
func (w *Sweeper) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Sweeper) run(ctx context.Context) {
	defer func() {
		w.mu.Lock()
		w.running = false
		close(w.done)
		w.mu.Unlock()
	}()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("session sweeper stopping")
			return
		case <-ticker.C:
			w.sweepOnce()
		}
	}
}

func (w *Sweeper) sweepOnce() {
	removed := w.store.SweepExpired()
	if removed > 0 {
		w.logger.Info("evicted idle sessions",
			zap.Int("removed", removed),
			zap.Duration("idleTimeout", w.store.IdleTimeout()),
		)
	}
	w.logger.Debug("session sweep finished", zap.Int("live", w.store.Len()))
}
