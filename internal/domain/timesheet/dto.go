package timesheet

import (
	"strings"
	"time"

	"github.com/workledger/workledger-backend-go/internal/pkg/validator"
)

// ========================================
// TIMER DTOs
// ========================================

type StartTimerRequest struct {
	TaskID        *string `json:"task_id,omitempty"`
	ClientID      *string `json:"client_id,omitempty"`
	PackageID     *string `json:"package_id,omitempty"`
	Description   *string `json:"description,omitempty"`
	Miscellaneous bool    `json:"miscellaneous"`
	MiscLabel     *string `json:"misc_label,omitempty"`
}

func (r *StartTimerRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.TaskID == nil && !r.Miscellaneous {
		errs = append(errs, validator.ValidationError{
			Field:   "task_id",
			Message: "task_id is required unless the timer is marked miscellaneous",
		})
	}

	if r.TaskID != nil && r.Miscellaneous {
		errs = append(errs, validator.ValidationError{
			Field:   "miscellaneous",
			Message: "a miscellaneous timer cannot reference a task",
		})
	}

	if r.MiscLabel != nil && validator.IsEmpty(*r.MiscLabel) {
		errs = append(errs, validator.ValidationError{
			Field:   "misc_label",
			Message: "misc_label must not be blank when provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type StopTimerRequest struct {
	ID               string `json:"-"`
	MarkTaskComplete bool   `json:"mark_task_complete"`
}

type TimeEntryResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       *string `json:"employee_name,omitempty"`
	ClientID           *string `json:"client_id,omitempty"`
	ClientName         *string `json:"client_name,omitempty"`
	PackageID          *string `json:"package_id,omitempty"`
	TaskID             *string `json:"task_id,omitempty"`
	Date               string  `json:"date"`
	ElapsedSeconds     int     `json:"elapsed_seconds"`
	Description        *string `json:"description,omitempty"`
	StartTime          *string `json:"start_time,omitempty"`
	EndTime            *string `json:"end_time,omitempty"`
	IsRunning          bool    `json:"is_running"`
	IsPaused           bool    `json:"is_paused"`
	AccumulatedSeconds int     `json:"accumulated_seconds"`
	IsMiscellaneous    bool    `json:"is_miscellaneous"`
	MiscLabel          *string `json:"misc_label,omitempty"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

// StopTimerResponse carries the finalized entry. Warning reports a failed
// post-finalization side effect (task synthesis or completion); the entry
// itself is already durable when a warning is present.
type StopTimerResponse struct {
	Entry   TimeEntryResponse `json:"entry"`
	Warning *string           `json:"warning,omitempty"`
}

// ActiveTimerResponse answers "what is my timer doing right now". State is
// one of "running", "paused", "none". CurrentElapsedSeconds includes the
// in-flight interval when running.
type ActiveTimerResponse struct {
	State                 string             `json:"state"`
	Entry                 *TimeEntryResponse `json:"entry,omitempty"`
	CurrentElapsedSeconds int                `json:"current_elapsed_seconds"`
}

// ========================================
// DIRECT LOGGING / LISTING DTOs
// ========================================

// LogEntryRequest creates a finalized entry with a fixed duration,
// bypassing the timer entirely.
type LogEntryRequest struct {
	TaskID         *string `json:"task_id,omitempty"`
	ClientID       *string `json:"client_id,omitempty"`
	PackageID      *string `json:"package_id,omitempty"`
	Date           string  `json:"date"` // YYYY-MM-DD
	ElapsedSeconds int     `json:"elapsed_seconds"`
	Description    *string `json:"description,omitempty"`
	Miscellaneous  bool    `json:"miscellaneous"`
	MiscLabel      *string `json:"misc_label,omitempty"`
}

func (r *LogEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.ElapsedSeconds <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "elapsed_seconds",
			Message: "elapsed_seconds must be a positive number of seconds",
		})
	}

	if r.TaskID == nil && !r.Miscellaneous {
		errs = append(errs, validator.ValidationError{
			Field:   "task_id",
			Message: "task_id is required unless the entry is marked miscellaneous",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEntryRequest struct {
	ID             string  `json:"-"`
	Date           *string `json:"date,omitempty"` // YYYY-MM-DD
	ElapsedSeconds *int    `json:"elapsed_seconds,omitempty"`
	Description    *string `json:"description,omitempty"`
	TaskID         *string `json:"task_id,omitempty"`
	ClientID       *string `json:"client_id,omitempty"`
	PackageID      *string `json:"package_id,omitempty"`
}

func (r *UpdateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil && *r.Date != "" {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.ElapsedSeconds != nil && *r.ElapsedSeconds <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "elapsed_seconds",
			Message: "elapsed_seconds must be a positive number of seconds",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EntryFilter struct {
	// Search & Filter
	EmployeeID *string `json:"employee_id,omitempty"`
	ClientID   *string `json:"client_id,omitempty"`
	PackageID  *string `json:"package_id,omitempty"`
	TaskID     *string `json:"task_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, elapsed_seconds, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *EntryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "elapsed_seconds", "created_at"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, elapsed_seconds, created_at",
			})
		}
	} else {
		f.SortBy = "date" // Default sort
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListEntriesResponse struct {
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
	Entries    []TimeEntryResponse `json:"entries"`
}

// MapEntryToResponse converts a TimeEntry entity to TimeEntryResponse.
func MapEntryToResponse(e TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		ID:                 e.ID,
		EmployeeID:         e.EmployeeID,
		EmployeeName:       e.EmployeeName,
		ClientID:           e.ClientID,
		ClientName:         e.ClientName,
		PackageID:          e.PackageID,
		TaskID:             e.TaskID,
		Date:               e.Date.Format("2006-01-02"),
		ElapsedSeconds:     e.ElapsedSeconds,
		Description:        e.Description,
		StartTime:          timePtrToString(e.StartTime),
		EndTime:            timePtrToString(e.EndTime),
		IsRunning:          e.IsRunning,
		IsPaused:           e.IsPaused,
		AccumulatedSeconds: e.AccumulatedSeconds,
		IsMiscellaneous:    e.IsMiscellaneous,
		MiscLabel:          e.MiscLabel,
		CreatedAt:          e.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:          e.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}
