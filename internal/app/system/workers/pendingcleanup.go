// internal/app/system/workers/pendingcleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	"go.uber.org/zap"
)

// PendingCleanup is a background worker that expires stale join requests.
// A request that has sat in pending_members longer than maxAge is removed;
// the user can simply re-request, which restarts them at pending.
type PendingCleanup struct {
	groups   *groupstore.Store
	log      *zap.Logger
	interval time.Duration
	maxAge   time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewPendingCleanup creates the worker.
//
// Parameters:
//   - groups: the group store
//   - logger: zap logger
//   - interval: how often to sweep (e.g. 1 hour)
//   - maxAge: how old a pending request must be before removal (e.g. 720h)
func NewPendingCleanup(groups *groupstore.Store, logger *zap.Logger, interval, maxAge time.Duration) *PendingCleanup {
	return &PendingCleanup{
		groups:   groups,
		log:      logger,
		interval: interval,
		maxAge:   maxAge,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *PendingCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("pending cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("max_age", w.maxAge))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *PendingCleanup) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("pending cleanup worker stopped")
}

func (w *PendingCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *PendingCleanup) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-w.maxAge)
	touched, err := w.groups.ExpirePending(ctx, cutoff)
	if err != nil {
		w.log.Warn("pending cleanup sweep failed", zap.Error(err))
		return
	}
	if touched > 0 {
		w.log.Info("expired stale join requests",
			zap.Int64("groups_touched", touched),
			zap.Time("cutoff", cutoff))
	}
}
