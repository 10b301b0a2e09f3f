package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/workledger/workledger-backend-go/internal/domain/task"
	"github.com/workledger/workledger-backend-go/internal/pkg/database"
)

type taskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.TaskRepository {
	return &taskRepository{db: db}
}

// Create implements task.TaskRepository.
func (r *taskRepository) Create(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	recurrence, err := marshalRecurrence(t.Recurrence)
	if err != nil {
		return task.Task{}, err
	}

	query := `
		INSERT INTO tasks (
			id, firm_id, name, description, client_id, package_id,
			assignee_ids, status, due_date, is_recurring, recurrence
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		t.ID,
		t.FirmID,
		t.Name,
		t.Description,
		t.ClientID,
		t.PackageID,
		t.AssigneeIDs,
		t.Status,
		t.DueDate,
		t.IsRecurring,
		recurrence,
	).Scan(&t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return t, nil
}

// GetByID implements task.TaskRepository.
func (r *taskRepository) GetByID(ctx context.Context, id string, firmID string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, firm_id, name, description, client_id, package_id,
			   assignee_ids, status, due_date, is_recurring, recurrence,
			   created_at, updated_at
		FROM tasks
		WHERE id = $1 AND firm_id = $2
	`

	t, err := scanTask(q.QueryRow(ctx, query, id, firmID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to get task by ID: %w", err)
	}

	return t, nil
}

// UpdateStatus implements task.TaskRepository.
func (r *taskRepository) UpdateStatus(ctx context.Context, id string, firmID string, status task.TaskStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tasks
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND firm_id = $3
	`

	tag, err := q.Exec(ctx, query, status, id, firmID)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}

	return nil
}

// ListRecurringSeeds implements task.TaskRepository.
func (r *taskRepository) ListRecurringSeeds(ctx context.Context, firmID string) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, firm_id, name, description, client_id, package_id,
			   assignee_ids, status, due_date, is_recurring, recurrence,
			   created_at, updated_at
		FROM tasks
		WHERE firm_id = $1 AND is_recurring
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, firmID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// ListDueInRange implements task.TaskRepository.
func (r *taskRepository) ListDueInRange(ctx context.Context, start time.Time, end time.Time, firmID string) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, firm_id, name, description, client_id, package_id,
			   assignee_ids, status, due_date, is_recurring, recurrence,
			   created_at, updated_at
		FROM tasks
		WHERE firm_id = $1
		  AND NOT is_recurring
		  AND due_date >= $2
		  AND due_date <= $3
		ORDER BY due_date ASC
	`

	rows, err := q.Query(ctx, query, firmID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query due tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

func collectTasks(rows pgx.Rows) ([]task.Task, error) {
	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	var recurrence []byte

	err := row.Scan(
		&t.ID, &t.FirmID, &t.Name, &t.Description, &t.ClientID, &t.PackageID,
		&t.AssigneeIDs, &t.Status, &t.DueDate, &t.IsRecurring, &recurrence,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return task.Task{}, err
	}

	if len(recurrence) > 0 {
		var p task.RecurrencePattern
		if err := json.Unmarshal(recurrence, &p); err != nil {
			return task.Task{}, fmt.Errorf("failed to decode recurrence pattern: %w", err)
		}
		t.Recurrence = &p
	}

	return t, nil
}

// marshalRecurrence encodes the pattern for the jsonb column; NULL when the
// task is not recurring.
func marshalRecurrence(p *task.RecurrencePattern) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recurrence pattern: %w", err)
	}
	return b, nil
}
