package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/odyssey-erp/odyssey-admin/internal/jobs"
)

// Pruner deletes rows older than a retention window and reports how many went.
type Pruner interface {
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// PrunerFunc adapts a function to Pruner.
type PrunerFunc func(ctx context.Context, olderThan time.Duration) (int64, error)

// Prune calls f.
func (f PrunerFunc) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	return f(ctx, olderThan)
}

// HousekeepingJob removes stale idempotency keys and old activity entries.
type HousekeepingJob struct {
	Idempotency Pruner
	Activity    Pruner
	Logger      *slog.Logger
	Metrics     *jobmetrics.Metrics
}

// HandleIdempotencyCleanup processes TaskIdempotencyCleanup.
func (j *HousekeepingJob) HandleIdempotencyCleanup(ctx context.Context, t *asynq.Task) error {
	return j.run(ctx, t, TaskIdempotencyCleanup, j.Idempotency)
}

// HandleActivityPrune processes TaskActivityPrune.
func (j *HousekeepingJob) HandleActivityPrune(ctx context.Context, t *asynq.Task) error {
	return j.run(ctx, t, TaskActivityPrune, j.Activity)
}

// Handlers lists the task handlers for the worker mux.
func (j *HousekeepingJob) Handlers() []TaskHandler {
	return []TaskHandler{
		{Type: TaskIdempotencyCleanup, Handler: j.HandleIdempotencyCleanup},
		{Type: TaskActivityPrune, Handler: j.HandleActivityPrune},
	}
}

func (j *HousekeepingJob) run(ctx context.Context, t *asynq.Task, name string, pruner Pruner) (resultErr error) {
	if j == nil || pruner == nil {
		return errors.New("housekeeping: handler not configured")
	}
	var payload RetentionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.OlderThan <= 0 {
		return errors.Join(asynq.SkipRetry, errors.New("housekeeping: invalid payload"))
	}

	tracker := j.Metrics.Track(name)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("job", name), slog.Duration("older_than", payload.OlderThan))
	removed, err := pruner.Prune(ctx, payload.OlderThan)
	if err != nil {
		logger.Error("housekeeping failed", slog.Any("error", err))
		return err
	}
	logger.Info("housekeeping done", slog.Int64("removed", removed))
	return nil
}

func (j *HousekeepingJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
