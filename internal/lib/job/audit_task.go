package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/eventhub/internal/model"
	"github.com/hibiken/asynq"
)

const (
	// TaskAuditRecord is the job type name stored in Redis.
	TaskAuditRecord = "record:audit"
)

// AuditPayload is the JSON payload of an audit task.
type AuditPayload struct {
	Entity    string            `json:"entity"`
	Action    model.AuditAction `json:"action"`
	RecordID  string            `json:"record_id"`
	RequestID string            `json:"request_id,omitempty"`
	Data      model.Document    `json:"data,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewAuditTask constructs an Asynq task that appends an audit entry.
//
// Audit entries are low priority: MaxRetry(5) on the "low" queue with a
// 30 second timeout.
func NewAuditTask(p AuditPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskAuditRecord,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}

// EnqueueAudit builds an audit task and pushes it onto the "low" queue.
func (j *JobService) EnqueueAudit(ctx context.Context, p AuditPayload) error {
	task, err := NewAuditTask(p)
	if err != nil {
		return fmt.Errorf("failed to build audit task: %w", err)
	}

	if _, err = j.Enqueue(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue audit task: %w", err)
	}

	return nil
}
