package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/eventhub/internal/model"
	"github.com/hibiken/asynq"
)

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, entry *model.AuditLog) error
}

// InitHandlers injects the dependencies the task handlers need.
func (j *JobService) InitHandlers(recorder AuditRecorder) {
	j.recorder = recorder
}

// handleAuditTask decodes an audit payload and stores it.
// A returned error makes Asynq retry the task.
func (j *JobService) handleAuditTask(ctx context.Context, t *asynq.Task) error {
	var p AuditPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal audit payload: %w: %w", err, asynq.SkipRetry)
	}

	if j.recorder == nil {
		return fmt.Errorf("audit recorder not initialized")
	}

	err := j.recorder.Record(ctx, &model.AuditLog{
		Timestamp: p.Timestamp,
		Entity:    p.Entity,
		Action:    p.Action,
		RecordID:  p.RecordID,
		RequestID: p.RequestID,
		Data:      p.Data,
	})
	if err != nil {
		j.logger.Error().
			Str("type", TaskAuditRecord).
			Str("entity", p.Entity).
			Str("record_id", p.RecordID).
			Err(err).
			Msg("Failed to store audit entry")
		return err
	}

	j.logger.Debug().
		Str("type", TaskAuditRecord).
		Str("entity", p.Entity).
		Str("action", string(p.Action)).
		Str("record_id", p.RecordID).
		Msg("Stored audit entry")

	return nil
}
