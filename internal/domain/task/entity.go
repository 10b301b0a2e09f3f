package task

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

var TaskStatusValues = []string{
	string(TaskStatusTodo),
	string(TaskStatusInProgress),
	string(TaskStatusCompleted),
}

type Task struct {
	ID          string
	FirmID      string
	Name        string
	Description *string
	ClientID    *string
	PackageID   *string
	AssigneeIDs []string
	Status      TaskStatus
	DueDate     *time.Time
	IsRecurring bool
	Recurrence  *RecurrencePattern
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAssignedTo reports whether employeeID is one of the task's assignees.
func (t *Task) IsAssignedTo(employeeID string) bool {
	for _, id := range t.AssigneeIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}

type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

var FrequencyValues = []string{
	string(FrequencyDaily),
	string(FrequencyWeekly),
	string(FrequencyMonthly),
	string(FrequencyYearly),
}

// RecurrencePattern is the generator seed embedded in a recurring task.
// Occurrences are never persisted; they are expanded on demand.
type RecurrencePattern struct {
	Frequency  Frequency  `json:"frequency"`
	Interval   int        `json:"interval,omitempty"`     // >= 1, 0 means 1
	DaysOfWeek []int      `json:"days_of_week,omitempty"` // 0=Sunday .. 6=Saturday, WEEKLY only
	DayOfMonth *int       `json:"day_of_month,omitempty"` // 1-31, MONTHLY only
	EndDate    *time.Time `json:"end_date,omitempty"`
}

// Occurrence is a read-only projection of a recurring task stamped with a
// concrete date. Its ID is synthetic (seed task ID + date) so the calendar
// can distinguish it from stored tasks without separate storage.
type Occurrence struct {
	ID          string
	SeedTaskID  string
	Date        time.Time
	Name        string
	Description *string
	ClientID    *string
	PackageID   *string
	AssigneeIDs []string
}

type CalendarItemKind string

const (
	CalendarItemTask       CalendarItemKind = "task"
	CalendarItemOccurrence CalendarItemKind = "occurrence"
)

// CalendarItem is the tagged union merged into one calendar list: either a
// stored task or a virtual occurrence, never both.
type CalendarItem struct {
	Kind       CalendarItemKind
	Task       *Task
	Occurrence *Occurrence
}

// Date returns the calendar date the item sorts by.
func (c CalendarItem) Date() time.Time {
	if c.Kind == CalendarItemOccurrence && c.Occurrence != nil {
		return c.Occurrence.Date
	}
	if c.Task != nil && c.Task.DueDate != nil {
		return *c.Task.DueDate
	}
	return time.Time{}
}
