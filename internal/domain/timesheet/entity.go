package timesheet

import (
	"time"
)

// TimeEntry is one logged work interval for an employee. An entry is either
// finalized (ElapsedSeconds frozen, StartTime/EndTime set) or the employee's
// single active timer (IsRunning or IsPaused). While a timer is running,
// AccumulatedSeconds holds only time banked across previous pause cycles;
// the in-flight interval is always derived from TimerStartedAt and the
// server clock, never counted in memory.
type TimeEntry struct {
	ID                 string
	FirmID             string
	EmployeeID         string
	ClientID           *string
	PackageID          *string
	TaskID             *string
	Date               time.Time
	ElapsedSeconds     int
	Description        *string
	StartTime          *time.Time
	EndTime            *time.Time
	IsRunning          bool
	IsPaused           bool
	TimerStartedAt     *time.Time
	PausedAt           *time.Time
	AccumulatedSeconds int
	IsMiscellaneous    bool
	MiscLabel          *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// DTO
	EmployeeName *string
	ClientName   *string
}

// IsActive reports whether the entry is the employee's live timer.
func (e *TimeEntry) IsActive() bool {
	return e.IsRunning || e.IsPaused
}
