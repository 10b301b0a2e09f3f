package timesheet

import "errors"

// Timesheet domain errors
var (
	// Timer conflicts (an employee may have at most one active timer)
	ErrTimerAlreadyRunning = errors.New("a timer is already running - stop it before starting a new one")
	ErrTimerAlreadyPaused  = errors.New("a paused timer exists - resume or stop it before starting a new one")

	// Invalid transitions
	ErrTimerNotRunning = errors.New("timer is not running")
	ErrTimerNotPaused  = errors.New("timer is not paused")
	ErrTimerNotActive  = errors.New("time entry has no active timer")

	// General errors
	ErrEntryNotFound = errors.New("time entry not found")
	ErrEntryActive   = errors.New("time entry has an active timer - stop it before editing")
	ErrNotEntryOwner = errors.New("not allowed to operate on another employee's time entry")
)
