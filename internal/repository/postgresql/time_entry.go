package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/workledger/workledger-backend-go/internal/domain/timesheet"
	"github.com/workledger/workledger-backend-go/internal/pkg/database"
)

// activeTimerConstraint is the partial unique index on time_entries
// (employee_id) WHERE is_running OR is_paused. It is what makes the
// single-active-timer rule hold under concurrent starts.
const activeTimerConstraint = "time_entries_one_active_per_employee"

type timeEntryRepository struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) timesheet.TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

// Create implements timesheet.TimeEntryRepository.
func (r *timeEntryRepository) Create(ctx context.Context, entry timesheet.TimeEntry) (timesheet.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_entries (
			id, firm_id, employee_id, client_id, package_id, task_id,
			date, elapsed_seconds, description, start_time, end_time,
			is_running, is_paused, timer_started_at, paused_at,
			accumulated_seconds, is_miscellaneous, misc_label
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID,
		entry.FirmID,
		entry.EmployeeID,
		entry.ClientID,
		entry.PackageID,
		entry.TaskID,
		entry.Date,
		entry.ElapsedSeconds,
		entry.Description,
		entry.StartTime,
		entry.EndTime,
		entry.IsRunning,
		entry.IsPaused,
		entry.TimerStartedAt,
		entry.PausedAt,
		entry.AccumulatedSeconds,
		entry.IsMiscellaneous,
		entry.MiscLabel,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == activeTimerConstraint {
			return timesheet.TimeEntry{}, timesheet.ErrTimerAlreadyRunning
		}
		return timesheet.TimeEntry{}, fmt.Errorf("failed to create time entry: %w", err)
	}

	return entry, nil
}

// GetByID implements timesheet.TimeEntryRepository.
func (r *timeEntryRepository) GetByID(ctx context.Context, id string, firmID string) (timesheet.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT t.id, t.firm_id, t.employee_id, t.client_id, t.package_id, t.task_id,
			   t.date, t.elapsed_seconds, t.description, t.start_time, t.end_time,
			   t.is_running, t.is_paused, t.timer_started_at, t.paused_at,
			   t.accumulated_seconds, t.is_miscellaneous, t.misc_label,
			   t.created_at, t.updated_at,
			   e.full_name AS employee_name,
			   c.name AS client_name
		FROM time_entries t
		LEFT JOIN employees e ON e.id = t.employee_id
		LEFT JOIN clients c ON c.id = t.client_id
		WHERE t.id = $1 AND t.firm_id = $2
	`

	var entry timesheet.TimeEntry
	err := q.QueryRow(ctx, query, id, firmID).Scan(
		&entry.ID, &entry.FirmID, &entry.EmployeeID, &entry.ClientID, &entry.PackageID, &entry.TaskID,
		&entry.Date, &entry.ElapsedSeconds, &entry.Description, &entry.StartTime, &entry.EndTime,
		&entry.IsRunning, &entry.IsPaused, &entry.TimerStartedAt, &entry.PausedAt,
		&entry.AccumulatedSeconds, &entry.IsMiscellaneous, &entry.MiscLabel,
		&entry.CreatedAt, &entry.UpdatedAt,
		&entry.EmployeeName, &entry.ClientName,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return timesheet.TimeEntry{}, timesheet.ErrEntryNotFound
		}
		return timesheet.TimeEntry{}, fmt.Errorf("failed to get time entry by ID: %w", err)
	}

	return entry, nil
}

// GetActiveByEmployee implements timesheet.TimeEntryRepository.
func (r *timeEntryRepository) GetActiveByEmployee(ctx context.Context, employeeID string, firmID string) (*timesheet.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, firm_id, employee_id, client_id, package_id, task_id,
			   date, elapsed_seconds, description, start_time, end_time,
			   is_running, is_paused, timer_started_at, paused_at,
			   accumulated_seconds, is_miscellaneous, misc_label,
			   created_at, updated_at
		FROM time_entries
		WHERE employee_id = $1
		  AND firm_id = $2
		  AND (is_running OR is_paused)
		LIMIT 1
	`

	var entry timesheet.TimeEntry
	err := q.QueryRow(ctx, query, employeeID, firmID).Scan(
		&entry.ID, &entry.FirmID, &entry.EmployeeID, &entry.ClientID, &entry.PackageID, &entry.TaskID,
		&entry.Date, &entry.ElapsedSeconds, &entry.Description, &entry.StartTime, &entry.EndTime,
		&entry.IsRunning, &entry.IsPaused, &entry.TimerStartedAt, &entry.PausedAt,
		&entry.AccumulatedSeconds, &entry.IsMiscellaneous, &entry.MiscLabel,
		&entry.CreatedAt, &entry.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No active timer
		}
		return nil, fmt.Errorf("failed to get active timer: %w", err)
	}

	return &entry, nil
}

// UpdateTimerState implements timesheet.TimeEntryRepository. It writes the
// full timer state unconditionally so NULLed-out timestamps are persisted.
func (r *timeEntryRepository) UpdateTimerState(ctx context.Context, entry timesheet.TimeEntry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET elapsed_seconds = $1,
			is_running = $2,
			is_paused = $3,
			timer_started_at = $4,
			paused_at = $5,
			accumulated_seconds = $6,
			start_time = $7,
			end_time = $8,
			task_id = $9,
			updated_at = $10
		WHERE id = $11 AND firm_id = $12
	`

	tag, err := q.Exec(ctx, query,
		entry.ElapsedSeconds,
		entry.IsRunning,
		entry.IsPaused,
		entry.TimerStartedAt,
		entry.PausedAt,
		entry.AccumulatedSeconds,
		entry.StartTime,
		entry.EndTime,
		entry.TaskID,
		entry.UpdatedAt,
		entry.ID,
		entry.FirmID,
	)
	if err != nil {
		return fmt.Errorf("failed to update timer state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timesheet.ErrEntryNotFound
	}

	return nil
}

// Update implements timesheet.TimeEntryRepository.
func (r *timeEntryRepository) Update(ctx context.Context, entry timesheet.TimeEntry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET date = $1,
			elapsed_seconds = $2,
			description = $3,
			task_id = $4,
			client_id = $5,
			package_id = $6,
			updated_at = $7
		WHERE id = $8 AND firm_id = $9
	`

	tag, err := q.Exec(ctx, query,
		entry.Date,
		entry.ElapsedSeconds,
		entry.Description,
		entry.TaskID,
		entry.ClientID,
		entry.PackageID,
		entry.UpdatedAt,
		entry.ID,
		entry.FirmID,
	)
	if err != nil {
		return fmt.Errorf("failed to update time entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timesheet.ErrEntryNotFound
	}

	return nil
}

// List implements timesheet.TimeEntryRepository.
func (r *timeEntryRepository) List(ctx context.Context, filter timesheet.EntryFilter, firmID string) ([]timesheet.TimeEntry, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "t.firm_id = $1"
	args := []interface{}{firmID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND t.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.ClientID != nil && *filter.ClientID != "" {
		baseWhere += fmt.Sprintf(" AND t.client_id = $%d", argIdx)
		args = append(args, *filter.ClientID)
		argIdx++
	}
	if filter.PackageID != nil && *filter.PackageID != "" {
		baseWhere += fmt.Sprintf(" AND t.package_id = $%d", argIdx)
		args = append(args, *filter.PackageID)
		argIdx++
	}
	if filter.TaskID != nil && *filter.TaskID != "" {
		baseWhere += fmt.Sprintf(" AND t.task_id = $%d", argIdx)
		args = append(args, *filter.TaskID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND t.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND t.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM time_entries t WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count time entries: %w", err)
	}

	// Build ORDER BY
	orderByField := "t.date"
	switch filter.SortBy {
	case "elapsed_seconds":
		orderByField = "t.elapsed_seconds"
	case "created_at":
		orderByField = "t.created_at"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	// Build query with pagination
	selectQuery := fmt.Sprintf(`
		SELECT t.id, t.firm_id, t.employee_id, t.client_id, t.package_id, t.task_id,
			   t.date, t.elapsed_seconds, t.description, t.start_time, t.end_time,
			   t.is_running, t.is_paused, t.timer_started_at, t.paused_at,
			   t.accumulated_seconds, t.is_miscellaneous, t.misc_label,
			   t.created_at, t.updated_at,
			   e.full_name AS employee_name,
			   c.name AS client_name
		FROM time_entries t
		LEFT JOIN employees e ON e.id = t.employee_id
		LEFT JOIN clients c ON c.id = t.client_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.TimeEntry
	for rows.Next() {
		var entry timesheet.TimeEntry
		err := rows.Scan(
			&entry.ID, &entry.FirmID, &entry.EmployeeID, &entry.ClientID, &entry.PackageID, &entry.TaskID,
			&entry.Date, &entry.ElapsedSeconds, &entry.Description, &entry.StartTime, &entry.EndTime,
			&entry.IsRunning, &entry.IsPaused, &entry.TimerStartedAt, &entry.PausedAt,
			&entry.AccumulatedSeconds, &entry.IsMiscellaneous, &entry.MiscLabel,
			&entry.CreatedAt, &entry.UpdatedAt,
			&entry.EmployeeName, &entry.ClientName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, total, nil
}

// ListFinalizedInRange implements timesheet.TimeEntryRepository.
func (r *timeEntryRepository) ListFinalizedInRange(ctx context.Context, start time.Time, end time.Time, firmID string) ([]timesheet.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, firm_id, employee_id, client_id, package_id, task_id,
			   date, elapsed_seconds, description, start_time, end_time,
			   is_running, is_paused, timer_started_at, paused_at,
			   accumulated_seconds, is_miscellaneous, misc_label,
			   created_at, updated_at
		FROM time_entries
		WHERE firm_id = $1
		  AND date >= $2
		  AND date <= $3
		  AND NOT is_running
		  AND NOT is_paused
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, firmID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query finalized time entries: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.TimeEntry
	for rows.Next() {
		var entry timesheet.TimeEntry
		err := rows.Scan(
			&entry.ID, &entry.FirmID, &entry.EmployeeID, &entry.ClientID, &entry.PackageID, &entry.TaskID,
			&entry.Date, &entry.ElapsedSeconds, &entry.Description, &entry.StartTime, &entry.EndTime,
			&entry.IsRunning, &entry.IsPaused, &entry.TimerStartedAt, &entry.PausedAt,
			&entry.AccumulatedSeconds, &entry.IsMiscellaneous, &entry.MiscLabel,
			&entry.CreatedAt, &entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Delete implements timesheet.TimeEntryRepository.
func (r *timeEntryRepository) Delete(ctx context.Context, id string, firmID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM time_entries WHERE id = $1 AND firm_id = $2", id, firmID)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timesheet.ErrEntryNotFound
	}

	return nil
}
