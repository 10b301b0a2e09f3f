package timesheet

import (
	"context"
	"time"
)

// TimeEntryRepository defines data access methods for time entries.
// All methods include firmID parameter to prevent cross-firm data access.
type TimeEntryRepository interface {
	// Create inserts a new time entry. When the entry is created in an
	// active timer state the store's partial unique index on
	// (employee_id) WHERE is_running OR is_paused guarantees the
	// single-active-timer invariant; a unique violation is translated to
	// ErrTimerAlreadyRunning so concurrent starts cannot both succeed.
	Create(ctx context.Context, entry TimeEntry) (TimeEntry, error)

	// GetByID retrieves a time entry by ID with firm isolation
	GetByID(ctx context.Context, id string, firmID string) (TimeEntry, error)

	// GetActiveByEmployee returns the employee's running or paused entry,
	// or nil when the employee has no active timer.
	GetActiveByEmployee(ctx context.Context, employeeID string, firmID string) (*TimeEntry, error)

	// UpdateTimerState writes the full timer state of an entry, including
	// clearing timer_started_at / paused_at back to NULL.
	UpdateTimerState(ctx context.Context, entry TimeEntry) error

	// Update updates non-timer fields of an existing entry
	Update(ctx context.Context, entry TimeEntry) error

	// List retrieves time entries with filters and pagination
	List(ctx context.Context, filter EntryFilter, firmID string) ([]TimeEntry, int64, error)

	// ListFinalizedInRange returns finalized entries whose date falls in
	// [start, end], unpaged; used by the profitability rollup.
	ListFinalizedInRange(ctx context.Context, start time.Time, end time.Time, firmID string) ([]TimeEntry, error)

	Delete(ctx context.Context, id string, firmID string) error
}
