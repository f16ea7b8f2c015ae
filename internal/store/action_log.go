package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fentz26/reviewer/internal/models"
	"github.com/google/uuid"
)

// WriteActionLog appends an entry to the action journal.
func (s *Store) WriteActionLog(ctx context.Context, action, phase, inputsHash string, taskID int64, details string) (*models.ActionLogEntry, error) {
	entry := &models.ActionLogEntry{
		ID:         uuid.New().String(),
		Action:     action,
		Phase:      phase,
		InputsHash: inputsHash,
		TaskID:     taskID,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}

	var task sql.NullInt64
	if taskID != 0 {
		task = sql.NullInt64{Int64: taskID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO action_log (id, action, phase, inputs_hash, task_id, details, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Action, entry.Phase, entry.InputsHash, task, entry.Details, entry.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert action log: %w", err)
	}
	return entry, nil
}

// ListActionLog returns the most recent journal entries, newest first.
func (s *Store) ListActionLog(ctx context.Context, limit int) ([]models.ActionLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, phase, inputs_hash, task_id, details, timestamp FROM action_log ORDER BY timestamp DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query action log: %w", err)
	}
	defer rows.Close()

	var entries []models.ActionLogEntry
	for rows.Next() {
		var entry models.ActionLogEntry
		var taskID sql.NullInt64
		var details sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.Phase, &entry.InputsHash, &taskID, &details, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan action log: %w", err)
		}
		if taskID.Valid {
			entry.TaskID = taskID.Int64
		}
		if details.Valid {
			entry.Details = details.String
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
