// Package jobs carries the asynq worker, client and task definitions.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuthzRefresh recomputes a user's permission snapshot after a
	// grant change.
	TaskAuthzRefresh = "authz:refresh"
	// TaskRetentionScan flags documents past their retention period.
	TaskRetentionScan = "retention:scan"
)

// AuthzRefreshPayload identifies the user whose snapshot must be rebuilt.
type AuthzRefreshPayload struct {
	UserID int64 `json:"user_id"`
}

// NewAuthzRefreshTask constructs an Asynq task.
func NewAuthzRefreshTask(payload AuthzRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuthzRefresh, data), nil
}

// NewRetentionScanTask constructs the nightly scan task. No payload.
func NewRetentionScanTask() *asynq.Task {
	return asynq.NewTask(TaskRetentionScan, nil)
}
