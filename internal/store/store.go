// Package store provides SQLite-backed persistence for the backlog reviewer.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/reviewer/internal/models"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// ErrTaskNotFound indicates an update touched no task row.
var ErrTaskNotFound = errors.New("task not found")

// ErrEventNotFound indicates an update touched no task event row.
var ErrEventNotFound = errors.New("task event not found")

// Store provides access to the reviewer SQLite database.
type Store struct {
	db *sql.DB
}

// NewTask holds the fields of a task about to be inserted.
// Zero values fall back to the column defaults.
type NewTask struct {
	Title            string
	Status           models.TaskStatus
	Priority         models.TaskPriority
	Duration         models.TaskDuration
	RequiresInternet bool
	CreatedAt        time.Time
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Single owner, single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// --- Task Operations ---

const taskColumns = `id, title, status, priority, duration, requires_internet, destroyed, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var task models.Task
	err := row.Scan(&task.ID, &task.Title, &task.Status, &task.Priority, &task.Duration,
		&task.RequiresInternet, &task.Destroyed, &task.CreatedAt)
	return task, err
}

// CreateTask inserts a new available task with default weights.
func (s *Store) CreateTask(ctx context.Context, title string) (*models.Task, error) {
	return s.InsertTask(ctx, NewTask{Title: title})
}

// InsertTask inserts a task with explicit fields.
func (s *Store) InsertTask(ctx context.Context, nt NewTask) (*models.Task, error) {
	task := &models.Task{
		Title:            nt.Title,
		Status:           nt.Status,
		Priority:         nt.Priority,
		Duration:         nt.Duration,
		RequiresInternet: nt.RequiresInternet,
		CreatedAt:        nt.CreatedAt.UTC(),
	}
	if task.Status == "" {
		task.Status = models.TaskStatusAvailable
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	if task.Duration == "" {
		task.Duration = models.TaskDurationMedium
	}
	if nt.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (title, status, priority, duration, requires_internet, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		task.Title, task.Status, task.Priority, task.Duration, task.RequiresInternet, task.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	task.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read task id: %w", err)
	}
	return task, nil
}

// GetTask retrieves a task by ID, destroyed or not.
func (s *Store) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	task, err := scanTask(s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	return &task, nil
}

// ListActiveTasks returns every available, non-destroyed task ordered by id.
func (s *Store) ListActiveTasks(ctx context.Context) ([]models.Task, error) {
	return s.listTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE status = ? AND destroyed = 0 ORDER BY id`,
		models.TaskStatusAvailable)
}

// ListAllTasks returns every non-destroyed task regardless of status.
func (s *Store) ListAllTasks(ctx context.Context) ([]models.Task, error) {
	return s.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE destroyed = 0 ORDER BY id`)
}

func (s *Store) listTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

var fieldColumns = map[models.TaskField]string{
	models.FieldTitle:            "title",
	models.FieldStatus:           "status",
	models.FieldPriority:         "priority",
	models.FieldDuration:         "duration",
	models.FieldRequiresInternet: "requires_internet",
}

// UpdateTaskField sets a single column on a task.
func (s *Store) UpdateTaskField(ctx context.Context, id int64, field models.TaskField, value any) error {
	column, ok := fieldColumns[field]
	if !ok {
		return fmt.Errorf("update task: unknown field %q", field)
	}
	if err := validateFieldValue(field, value); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET `+column+` = ? WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("update task %s: %w", field, err)
	}
	return expectOneRow(res, ErrTaskNotFound)
}

func validateFieldValue(field models.TaskField, value any) error {
	var ok bool
	switch field {
	case models.FieldTitle:
		_, ok = value.(string)
	case models.FieldStatus:
		var v models.TaskStatus
		v, ok = value.(models.TaskStatus)
		ok = ok && v.Valid()
	case models.FieldPriority:
		var v models.TaskPriority
		v, ok = value.(models.TaskPriority)
		ok = ok && v.Valid()
	case models.FieldDuration:
		var v models.TaskDuration
		v, ok = value.(models.TaskDuration)
		ok = ok && v.Valid()
	case models.FieldRequiresInternet:
		_, ok = value.(bool)
	}
	if !ok {
		return fmt.Errorf("invalid value %v for field %s", value, field)
	}
	return nil
}

// SetTaskDestroyed flips the soft-delete flag of a task.
func (s *Store) SetTaskDestroyed(ctx context.Context, id int64, destroyed bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET destroyed = ? WHERE id = ?`, destroyed, id)
	if err != nil {
		return fmt.Errorf("update task destroyed: %w", err)
	}
	return expectOneRow(res, ErrTaskNotFound)
}

// --- Task Event Operations ---

// RecordEvent inserts a new event for a task.
func (s *Store) RecordEvent(ctx context.Context, taskID int64, eventType models.TaskEventType) (*models.TaskEvent, error) {
	event := &models.TaskEvent{
		TaskID:    taskID,
		Type:      eventType,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO task_events (task_id, event_type, created_at) VALUES (?, ?, ?)`,
		event.TaskID, event.Type, event.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task event: %w", err)
	}
	event.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read task event id: %w", err)
	}
	return event, nil
}

// SetEventDestroyed flips the soft-delete flag of a task event.
func (s *Store) SetEventDestroyed(ctx context.Context, id int64, destroyed bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE task_events SET destroyed = ? WHERE id = ?`, destroyed, id)
	if err != nil {
		return fmt.Errorf("update task event destroyed: %w", err)
	}
	return expectOneRow(res, ErrEventNotFound)
}

// EventsByTask returns every non-destroyed event grouped by task, newest first.
func (s *Store) EventsByTask(ctx context.Context) (map[int64][]models.TaskEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, task_id, event_type, destroyed, created_at FROM task_events WHERE destroyed = 0 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query task events: %w", err)
	}
	defer rows.Close()

	events := make(map[int64][]models.TaskEvent)
	for rows.Next() {
		var ev models.TaskEvent
		if err := rows.Scan(&ev.ID, &ev.TaskID, &ev.Type, &ev.Destroyed, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task event: %w", err)
		}
		events[ev.TaskID] = append(events[ev.TaskID], ev)
	}
	return events, rows.Err()
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n != 1 {
		return notFound
	}
	return nil
}
