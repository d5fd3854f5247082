package database

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

const createOrUpdateTaskResult = `-- name: CreateOrUpdateTaskResult :exec
INSERT INTO task_results (
task, result, session_id)
VALUES ($1, $2, $3)
ON CONFLICT (session_id, task)
DO UPDATE SET
    result = EXCLUDED.result,
    updated_at = CURRENT_TIMESTAMP
`

type CreateOrUpdateTaskResultParams struct {
	Task      string
	Result    json.RawMessage
	SessionID uuid.UUID
}

func (q *Queries) CreateOrUpdateTaskResult(ctx context.Context, arg CreateOrUpdateTaskResultParams) error {
	_, err := q.db.ExecContext(ctx, createOrUpdateTaskResult, arg.Task, arg.Result, arg.SessionID)
	return err
}
