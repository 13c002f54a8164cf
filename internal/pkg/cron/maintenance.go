package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notify"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/querycache"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/session"
)

// RevocationPruner forgets revoked console tokens that have expired.
type RevocationPruner interface {
	PruneRevoked(now time.Time) int
}

// MaintenanceJobs keeps the console's in-memory state bounded.
type MaintenanceJobs struct {
	cache    *querycache.Client
	tokens   RevocationPruner
	store    *session.Store
	notifier notify.Notifier
	now      func() time.Time
}

func NewMaintenanceJobs(cache *querycache.Client, tokens RevocationPruner, store *session.Store, notifier notify.Notifier) *MaintenanceJobs {
	return &MaintenanceJobs{
		cache:    cache,
		tokens:   tokens,
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// RegisterJobs adds the maintenance jobs. gcInterval drives cache eviction;
// the session and token jobs run every minute.
func (j *MaintenanceJobs) RegisterJobs(scheduler *Scheduler, gcInterval time.Duration) {
	scheduler.AddJob("query_cache_gc", gcInterval, j.CollectCache)
	scheduler.AddJob("expire_session", time.Minute, j.ExpireSession)
	scheduler.AddJob("prune_revoked_tokens", time.Minute, j.PruneRevokedTokens)
}

// CollectCache evicts unobserved entries unused for longer than their gc time.
func (j *MaintenanceJobs) CollectCache(ctx context.Context) error {
	if n := j.cache.GC(j.now()); n > 0 {
		slog.Debug("Cron: evicted cache entries", "count", n, "remaining", j.cache.Len())
	}
	return nil
}

// ExpireSession signs the operator out once the backend token has expired.
func (j *MaintenanceJobs) ExpireSession(ctx context.Context) error {
	if session.ExpireStale(j.store, j.now()) && j.notifier != nil {
		j.notifier.Notify(notify.LevelWarning, "Session expired", "Please sign in again.")
	}
	return nil
}

func (j *MaintenanceJobs) PruneRevokedTokens(ctx context.Context) error {
	if n := j.tokens.PruneRevoked(j.now()); n > 0 {
		slog.Debug("Cron: pruned revoked console tokens", "count", n)
	}
	return nil
}
