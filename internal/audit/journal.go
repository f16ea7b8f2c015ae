// Package audit records every executed, undone, and redone action in the action journal.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fentz26/reviewer/internal/models"
)

// Phase tells which direction an action ran in.
type Phase string

const (
	PhaseExecute Phase = "execute"
	PhaseUndo    Phase = "undo"
	PhaseRedo    Phase = "redo"
)

// Sink persists journal entries.
type Sink interface {
	WriteActionLog(ctx context.Context, action, phase, inputsHash string, taskID int64, details string) (*models.ActionLogEntry, error)
}

// Journal writes action journal entries for audit trails.
type Journal struct {
	sink Sink
}

// NewJournal creates a new journal over sink.
func NewJournal(sink Sink) *Journal {
	return &Journal{sink: sink}
}

// Record writes one entry for an action run in the given phase.
func (j *Journal) Record(ctx context.Context, action string, phase Phase, inputs any, taskID int64, details string) (*models.ActionLogEntry, error) {
	return j.sink.WriteActionLog(ctx, action, string(phase), HashInputs(inputs), taskID, details)
}

// HashInputs creates a SHA256 hash of the inputs so identical actions can be recognized.
func HashInputs(inputs any) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
