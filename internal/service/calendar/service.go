package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/workledger/workledger-backend-go/internal/domain/task"
	"github.com/workledger/workledger-backend-go/internal/service/schedule"
)

type service struct {
	taskRepo task.TaskRepository
}

func NewCalendarService(taskRepo task.TaskRepository) task.CalendarService {
	return &service{taskRepo: taskRepo}
}

// Calendar merges the two sources of schedulable work for the window:
// stored tasks with a due date inside it, and virtual occurrences expanded
// from the firm's recurring seeds. Every item is exactly one of the two.
func (s *service) Calendar(ctx context.Context, query task.CalendarQuery) (task.CalendarResponse, error) {
	firmID, err := firmIDFromContext(ctx)
	if err != nil {
		return task.CalendarResponse{}, err
	}

	if err := query.Validate(); err != nil {
		return task.CalendarResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", query.StartDate)
	end, _ := time.Parse("2006-01-02", query.EndDate)

	due, err := s.taskRepo.ListDueInRange(ctx, start, end, firmID)
	if err != nil {
		return task.CalendarResponse{}, fmt.Errorf("failed to list due tasks: %w", err)
	}

	seeds, err := s.taskRepo.ListRecurringSeeds(ctx, firmID)
	if err != nil {
		return task.CalendarResponse{}, fmt.Errorf("failed to list recurring tasks: %w", err)
	}

	items := make([]task.CalendarItem, 0, len(due))
	for i := range due {
		items = append(items, task.CalendarItem{
			Kind: task.CalendarItemTask,
			Task: &due[i],
		})
	}

	for _, seed := range seeds {
		occurrences, err := schedule.Expand(seed, start, end)
		if err != nil {
			return task.CalendarResponse{}, fmt.Errorf("failed to expand recurring task %s: %w", seed.ID, err)
		}
		for i := range occurrences {
			items = append(items, task.CalendarItem{
				Kind:       task.CalendarItemOccurrence,
				Occurrence: &occurrences[i],
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date().Before(items[j].Date())
	})

	resp := task.CalendarResponse{
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		Items:     make([]task.CalendarItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, task.MapCalendarItemToResponse(item))
	}

	return resp, nil
}

func firmIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get claims from context: %w", err)
	}

	firmID, ok := claims["firm_id"].(string)
	if !ok || firmID == "" {
		return "", fmt.Errorf("firm_id not found in token")
	}

	return firmID, nil
}
