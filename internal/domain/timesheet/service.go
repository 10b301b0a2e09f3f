package timesheet

import "context"

// TimerService governs the per-employee timer lifecycle:
// Idle -> Running -> Paused -> Running -> Stopped. The acting employee is
// taken from the request context claims; client-submitted timestamps are
// never trusted for elapsed-time math.
type TimerService interface {
	Start(ctx context.Context, req StartTimerRequest) (TimeEntryResponse, error)
	Pause(ctx context.Context, entryID string) (TimeEntryResponse, error)
	Resume(ctx context.Context, entryID string) (TimeEntryResponse, error)
	Stop(ctx context.Context, req StopTimerRequest) (StopTimerResponse, error)
	GetActive(ctx context.Context) (ActiveTimerResponse, error)
}

// EntryService manages finalized time entries outside the timer lifecycle.
type EntryService interface {
	Log(ctx context.Context, req LogEntryRequest) (TimeEntryResponse, error)
	Get(ctx context.Context, id string) (TimeEntryResponse, error)
	List(ctx context.Context, filter EntryFilter) (ListEntriesResponse, error)
	Update(ctx context.Context, req UpdateEntryRequest) (TimeEntryResponse, error)
	Delete(ctx context.Context, id string) error
}
