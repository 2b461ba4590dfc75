package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskIdempotencyCleanup drops expired transaction submit keys.
	TaskIdempotencyCleanup = "console:idempotency_cleanup"
	// TaskActivityPrune drops activity log entries past retention.
	TaskActivityPrune = "console:activity_prune"
)

// RetentionPayload carries the age after which rows are removed.
type RetentionPayload struct {
	OlderThan time.Duration `json:"older_than"`
}

// NewRetentionTask builds a housekeeping task of the given type.
func NewRetentionTask(taskType string, olderThan time.Duration) (*asynq.Task, error) {
	switch taskType {
	case TaskIdempotencyCleanup, TaskActivityPrune:
	default:
		return nil, fmt.Errorf("jobs: unknown task %q", taskType)
	}
	if olderThan <= 0 {
		return nil, fmt.Errorf("jobs: %s needs a positive retention", taskType)
	}
	data, err := json.Marshal(RetentionPayload{OlderThan: olderThan})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, data), nil
}
