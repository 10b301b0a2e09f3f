package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workledger/workledger-backend-go/internal/domain/task"
)

type memTaskRepo struct {
	task.TaskRepository
	tasks []task.Task
}

func (m *memTaskRepo) ListDueInRange(_ context.Context, start, end time.Time, firmID string) ([]task.Task, error) {
	var out []task.Task
	for _, t := range m.tasks {
		if t.FirmID != firmID || t.IsRecurring || t.DueDate == nil {
			continue
		}
		if t.DueDate.Before(start) || t.DueDate.After(end) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memTaskRepo) ListRecurringSeeds(_ context.Context, firmID string) ([]task.Task, error) {
	var out []task.Task
	for _, t := range m.tasks {
		if t.FirmID == firmID && t.IsRecurring {
			out = append(out, t)
		}
	}
	return out, nil
}

func authedContext(t *testing.T) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"employee_id": "emp-1",
		"firm_id":     "firm-1",
		"role":        "staff",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestCalendar_MergesTasksAndOccurrences(t *testing.T) {
	repo := &memTaskRepo{tasks: []task.Task{
		{
			ID:      "task-due",
			FirmID:  "firm-1",
			Name:    "File annual report",
			Status:  task.TaskStatusTodo,
			DueDate: datePtr(2026, time.March, 10),
		},
		{
			ID:          "task-weekly",
			FirmID:      "firm-1",
			Name:        "Weekly payroll run",
			IsRecurring: true,
			DueDate:     datePtr(2026, time.March, 2), // Monday
			Recurrence: &task.RecurrencePattern{
				Frequency: task.FrequencyWeekly,
				Interval:  1,
			},
		},
	}}
	svc := NewCalendarService(repo)

	resp, err := svc.Calendar(authedContext(t), task.CalendarQuery{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-16",
	})
	require.NoError(t, err)

	// Three Mondays (2, 9, 16) plus the stored task on the 10th.
	require.Len(t, resp.Items, 4)

	assert.Equal(t, "task-weekly:2026-03-02", resp.Items[0].ID)
	assert.Equal(t, "occurrence", resp.Items[0].Kind)
	assert.Equal(t, "task-weekly:2026-03-09", resp.Items[1].ID)
	assert.Equal(t, "task-due", resp.Items[2].ID)
	assert.Equal(t, "task", resp.Items[2].Kind)
	assert.Equal(t, "task-weekly:2026-03-16", resp.Items[3].ID)

	// Ascending by date
	for i := 1; i < len(resp.Items); i++ {
		assert.LessOrEqual(t, resp.Items[i-1].Date, resp.Items[i].Date)
	}
}

func TestCalendar_RecurringSeedNotListedAsTask(t *testing.T) {
	repo := &memTaskRepo{tasks: []task.Task{
		{
			ID:          "task-weekly",
			FirmID:      "firm-1",
			Name:        "Weekly payroll run",
			IsRecurring: true,
			DueDate:     datePtr(2026, time.March, 2),
			Recurrence: &task.RecurrencePattern{
				Frequency: task.FrequencyWeekly,
				Interval:  1,
			},
		},
	}}
	svc := NewCalendarService(repo)

	resp, err := svc.Calendar(authedContext(t), task.CalendarQuery{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-08",
	})
	require.NoError(t, err)

	for _, item := range resp.Items {
		assert.Equal(t, "occurrence", item.Kind)
		require.NotNil(t, item.SeedTaskID)
		assert.Equal(t, "task-weekly", *item.SeedTaskID)
	}
}

func TestCalendar_InvalidWindow(t *testing.T) {
	svc := NewCalendarService(&memTaskRepo{})

	_, err := svc.Calendar(authedContext(t), task.CalendarQuery{
		StartDate: "2026-03-10",
		EndDate:   "2026-03-01",
	})
	assert.Error(t, err)
}
