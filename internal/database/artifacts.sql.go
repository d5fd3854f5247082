package database

import (
	"context"

	"github.com/google/uuid"
)

const getArtifactsBySession = `-- name: GetArtifactsBySession :many
SELECT id, original_filename, mime, role, size_bytes, storage_provider, object_key, storage_url, upload_status, created_at, session_id FROM artifacts WHERE session_id=$1
`

func (q *Queries) GetArtifactsBySession(ctx context.Context, sessionID uuid.UUID) ([]Artifact, error) {
	rows, err := q.db.QueryContext(ctx, getArtifactsBySession, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Artifact
	for rows.Next() {
		var i Artifact
		if err := rows.Scan(
			&i.ID,
			&i.OriginalFilename,
			&i.Mime,
			&i.Role,
			&i.SizeBytes,
			&i.StorageProvider,
			&i.ObjectKey,
			&i.StorageUrl,
			&i.UploadStatus,
			&i.CreatedAt,
			&i.SessionID,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
