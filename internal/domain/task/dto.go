package task

import (
	"github.com/workledger/workledger-backend-go/internal/pkg/validator"
)

// ValidateRecurrence checks a recurrence pattern for structural validity.
// A zero Interval is treated as 1 by the expander, so only negative values
// are rejected here.
func (p *RecurrencePattern) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(string(p.Frequency), FrequencyValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "frequency",
			Message: "frequency must be one of: DAILY, WEEKLY, MONTHLY, YEARLY",
		})
	}

	if p.Interval < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "interval",
			Message: "interval must be at least 1",
		})
	}

	for _, d := range p.DaysOfWeek {
		if d < 0 || d > 6 {
			errs = append(errs, validator.ValidationError{
				Field:   "days_of_week",
				Message: "days_of_week values must be between 0 (Sunday) and 6 (Saturday)",
			})
			break
		}
	}

	if len(p.DaysOfWeek) > 0 && p.Frequency != FrequencyWeekly {
		errs = append(errs, validator.ValidationError{
			Field:   "days_of_week",
			Message: "days_of_week is only valid for WEEKLY frequency",
		})
	}

	if p.DayOfMonth != nil {
		if *p.DayOfMonth < 1 || *p.DayOfMonth > 31 {
			errs = append(errs, validator.ValidationError{
				Field:   "day_of_month",
				Message: "day_of_month must be between 1 and 31",
			})
		}
		if p.Frequency != FrequencyMonthly {
			errs = append(errs, validator.ValidationError{
				Field:   "day_of_month",
				Message: "day_of_month is only valid for MONTHLY frequency",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// CALENDAR DTOs
// ========================================

type CalendarQuery struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

func (q *CalendarQuery) Validate() error {
	var errs validator.ValidationErrors

	start, startValid := validator.IsValidDate(q.StartDate)
	if validator.IsEmpty(q.StartDate) || !startValid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required in YYYY-MM-DD format",
		})
	}

	end, endValid := validator.IsValidDate(q.EndDate)
	if validator.IsEmpty(q.EndDate) || !endValid {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required in YYYY-MM-DD format",
		})
	}

	if startValid && endValid && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CalendarItemResponse struct {
	Kind        string   `json:"kind"` // task | occurrence
	ID          string   `json:"id"`
	SeedTaskID  *string  `json:"seed_task_id,omitempty"`
	Date        string   `json:"date"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	ClientID    *string  `json:"client_id,omitempty"`
	PackageID   *string  `json:"package_id,omitempty"`
	AssigneeIDs []string `json:"assignee_ids,omitempty"`
	Status      *string  `json:"status,omitempty"` // stored tasks only
}

type CalendarResponse struct {
	StartDate string                 `json:"start_date"`
	EndDate   string                 `json:"end_date"`
	Items     []CalendarItemResponse `json:"items"`
}

// MapCalendarItemToResponse flattens the tagged union for the HTTP layer.
func MapCalendarItemToResponse(item CalendarItem) CalendarItemResponse {
	if item.Kind == CalendarItemOccurrence && item.Occurrence != nil {
		o := item.Occurrence
		return CalendarItemResponse{
			Kind:        string(CalendarItemOccurrence),
			ID:          o.ID,
			SeedTaskID:  &o.SeedTaskID,
			Date:        o.Date.Format("2006-01-02"),
			Name:        o.Name,
			Description: o.Description,
			ClientID:    o.ClientID,
			PackageID:   o.PackageID,
			AssigneeIDs: o.AssigneeIDs,
		}
	}

	t := item.Task
	status := string(t.Status)
	resp := CalendarItemResponse{
		Kind:        string(CalendarItemTask),
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		ClientID:    t.ClientID,
		PackageID:   t.PackageID,
		AssigneeIDs: t.AssigneeIDs,
		Status:      &status,
	}
	if t.DueDate != nil {
		resp.Date = t.DueDate.Format("2006-01-02")
	}
	return resp
}
