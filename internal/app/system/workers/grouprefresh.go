// internal/app/system/workers/grouprefresh.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/lumenlearn/lumenhub/internal/app/store/queries/dynamicmembers"
	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// GroupRefresh periodically recomputes every dynamic group so that
// last_computed_at stays fresh even for groups nobody is viewing.
// Reads always recompute on demand; this keeps the stored timestamps
// and logs useful for operators watching group churn.
type GroupRefresh struct {
	db       *mongo.Database
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewGroupRefresh creates the refresh worker. A typical interval is
// 15-60 minutes; recomputation cost scales with org activity volume.
func NewGroupRefresh(db *mongo.Database, logger *zap.Logger, interval time.Duration) *GroupRefresh {
	return &GroupRefresh{
		db:       db,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop.
func (w *GroupRefresh) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("dynamic group refresh worker started",
		zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *GroupRefresh) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("dynamic group refresh worker stopped")
}

func (w *GroupRefresh) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.refreshAll()
		}
	}
}

func (w *GroupRefresh) refreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cur, err := w.db.Collection("employee_groups").Find(ctx, bson.M{"is_dynamic": true})
	if err != nil {
		w.log.Error("failed to list dynamic groups for refresh", zap.Error(err))
		return
	}

	var groups []models.EmployeeGroup
	if err := cur.All(ctx, &groups); err != nil {
		w.log.Error("failed to decode dynamic groups for refresh", zap.Error(err))
		return
	}

	var refreshed int
	for _, g := range groups {
		members, err := dynamicmembers.Resolve(ctx, w.db, w.log, g)
		if err != nil {
			w.log.Warn("dynamic group refresh failed",
				zap.String("group_id", g.ID.Hex()),
				zap.String("name", g.Name),
				zap.Error(err))
			continue
		}
		refreshed++
		w.log.Debug("dynamic group refreshed",
			zap.String("group_id", g.ID.Hex()),
			zap.Int("members", len(members)))
	}

	if refreshed > 0 {
		w.log.Info("dynamic groups refreshed", zap.Int("count", refreshed))
	}
}
