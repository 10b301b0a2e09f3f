package task

import "context"

// CalendarService materializes the merged calendar view: stored tasks due
// in the window plus virtual occurrences expanded from recurring seeds.
type CalendarService interface {
	Calendar(ctx context.Context, query CalendarQuery) (CalendarResponse, error)
}
