// Package jobs runs scheduled maintenance such as retention sweeps.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"inkspace/internal/observability"
)

// Pruner deletes rows that fell out of a retention window relative to now.
type Pruner interface {
	Prune(ctx context.Context, now time.Time) (int64, error)
}

// PruneResult counts the rows removed by one sweep.
type PruneResult struct {
	Notifications int64
	Searches      int64
}

// PruneJob sweeps expired notifications and search history.
type PruneJob struct {
	notifications Pruner
	searches      Pruner
	log           *observability.JobLogger
	timeout       time.Duration
	now           func() time.Time
}

// NewPruneJob builds the sweep. Either pruner may be nil.
func NewPruneJob(notifications, searches Pruner, logger *slog.Logger) *PruneJob {
	return &PruneJob{
		notifications: notifications,
		searches:      searches,
		log:           observability.NewJobLogger(logger),
		timeout:       2 * time.Minute,
		now:           time.Now,
	}
}

// Run satisfies cron.Job.
func (j *PruneJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	_, _ = j.RunOnce(ctx)
}

// RunOnce performs one sweep using a single cutoff instant for both tables.
// A failure on one table does not stop the other.
func (j *PruneJob) RunOnce(ctx context.Context) (PruneResult, error) {
	now := j.now().UTC()
	done := j.log.Start(ctx, "retention_prune", slog.Time("now", now))

	var res PruneResult
	var errs []error
	if j.notifications != nil {
		n, err := j.notifications.Prune(ctx, now)
		if err != nil {
			errs = append(errs, err)
		}
		res.Notifications = n
	}
	if j.searches != nil {
		n, err := j.searches.Prune(ctx, now)
		if err != nil {
			errs = append(errs, err)
		}
		res.Searches = n
	}

	err := errors.Join(errs...)
	done(err,
		slog.Int64("notifications", res.Notifications),
		slog.Int64("search_histories", res.Searches),
	)
	return res, err
}
