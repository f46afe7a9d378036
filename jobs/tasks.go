// Package jobs contains the background task definitions and the Asynq worker.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeCaseOpened notifies the legal team about a newly opened case.
	TaskTypeCaseOpened = "case:opened"
	// TaskTypeSessionPurge removes expired login sessions.
	TaskTypeSessionPurge = "session:purge"
)

// CaseOpenedPayload describes the case data carried by a notification task.
type CaseOpenedPayload struct {
	ProcessID     string `json:"processId"`
	FuncionarioID string `json:"funcionarioId"`
	Gravidade     string `json:"gravidade"`
	TipoConduta   string `json:"tipoConduta"`
}

// NewCaseOpenedTask constructs an Asynq task.
func NewCaseOpenedTask(payload CaseOpenedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeCaseOpened, data), nil
}

// HandleCaseOpenedTask processes TaskTypeCaseOpened tasks.
func HandleCaseOpenedTask(ctx context.Context, t *asynq.Task) error {
	var payload CaseOpenedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: integrate with SMTP in phase 2.
	fmt.Printf("[jobs] notify case opened id=%s gravidade=%s\n", payload.ProcessID, payload.Gravidade)
	return nil
}

// NewCaseOpenedHandler builds the notification handler used by the worker.
// Delivery is a structured log entry until the SMTP integration lands.
func NewCaseOpenedHandler(from string, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload CaseOpenedPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if logger != nil {
			logger.Info("case opened notification",
				slog.String("from", from),
				slog.String("processId", payload.ProcessID),
				slog.String("gravidade", payload.Gravidade))
		}
		return nil
	}
}

// NewSessionPurgeTask constructs the periodic cleanup task.
func NewSessionPurgeTask() *asynq.Task {
	return asynq.NewTask(TaskTypeSessionPurge, nil)
}

// SessionRetentionDays is how long login history stays queryable for
// the admin feeds before the nightly purge drops it.
const SessionRetentionDays = 90

// NewSessionPurgeHandler builds the handler that trims old login history.
// Rows are kept past token expiry on purpose: the recent-logins and
// activity feeds read from this table.
func NewSessionPurgeHandler(pool *pgxpool.Pool, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tag, err := pool.Exec(ctx, `DELETE FROM login_sessions WHERE criado_em < now() - make_interval(days => $1)`,
			SessionRetentionDays)
		if err != nil {
			return err
		}
		if logger != nil && tag.RowsAffected() > 0 {
			logger.Info("purged expired sessions", slog.Int64("count", tag.RowsAffected()))
		}
		return nil
	}
}
