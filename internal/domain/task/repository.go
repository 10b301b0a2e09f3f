package task

import (
	"context"
	"time"
)

// TaskRepository defines data access methods for tasks.
// All methods include firmID parameter to prevent cross-firm data access.
type TaskRepository interface {
	// Create creates a new task (also used to synthesize the completed
	// placeholder task that backs miscellaneous timer entries)
	Create(ctx context.Context, t Task) (Task, error)

	// GetByID retrieves a task by ID with firm isolation
	GetByID(ctx context.Context, id string, firmID string) (Task, error)

	// UpdateStatus transitions a task to the given status
	UpdateStatus(ctx context.Context, id string, firmID string, status TaskStatus) error

	// ListRecurringSeeds returns every recurring task of the firm; the
	// expander turns them into virtual occurrences.
	ListRecurringSeeds(ctx context.Context, firmID string) ([]Task, error)

	// ListDueInRange returns non-recurring tasks whose due date falls in
	// [start, end].
	ListDueInRange(ctx context.Context, start time.Time, end time.Time, firmID string) ([]Task, error)
}
