package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workledger/workledger-backend-go/internal/domain/task"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func recurringSeed(id string, due time.Time, pattern task.RecurrencePattern) task.Task {
	return task.Task{
		ID:          id,
		FirmID:      "firm-1",
		Name:        "Monthly bookkeeping",
		IsRecurring: true,
		DueDate:     &due,
		Recurrence:  &pattern,
		CreatedAt:   due,
	}
}

func TestExpand_WeeklyOnDays(t *testing.T) {
	// Anchor Monday 2026-01-05, every Mon and Wed.
	seed := recurringSeed("task-1", date(2026, time.January, 5), task.RecurrencePattern{
		Frequency:  task.FrequencyWeekly,
		Interval:   1,
		DaysOfWeek: []int{1, 3},
	})

	got, err := Expand(seed, date(2026, time.January, 5), date(2026, time.January, 13))
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, date(2026, time.January, 5), got[0].Date)  // Mon
	assert.Equal(t, date(2026, time.January, 7), got[1].Date)  // Wed
	assert.Equal(t, date(2026, time.January, 12), got[2].Date) // Mon
}

func TestExpand_Deterministic(t *testing.T) {
	seed := recurringSeed("task-1", date(2026, time.January, 5), task.RecurrencePattern{
		Frequency:  task.FrequencyWeekly,
		Interval:   1,
		DaysOfWeek: []int{1, 3},
	})

	first, err := Expand(seed, date(2026, time.January, 1), date(2026, time.March, 31))
	require.NoError(t, err)
	second, err := Expand(seed, date(2026, time.January, 1), date(2026, time.March, 31))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExpand_SyntheticIDs(t *testing.T) {
	seed := recurringSeed("task-9", date(2026, time.February, 1), task.RecurrencePattern{
		Frequency: task.FrequencyDaily,
		Interval:  1,
	})

	got, err := Expand(seed, date(2026, time.February, 1), date(2026, time.February, 3))
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "task-9:2026-02-01", got[0].ID)
	assert.Equal(t, "task-9:2026-02-02", got[1].ID)
	assert.Equal(t, "task-9:2026-02-03", got[2].ID)
	for _, o := range got {
		assert.Equal(t, "task-9", o.SeedTaskID)
	}
}

func TestExpand_MonthlyClampsShortMonths(t *testing.T) {
	// Day 31 from a January anchor: Feb has 28 days in 2026, Apr has 30.
	seed := recurringSeed("task-2", date(2026, time.January, 31), task.RecurrencePattern{
		Frequency: task.FrequencyMonthly,
		Interval:  1,
	})

	got, err := Expand(seed, date(2026, time.January, 1), date(2026, time.May, 31))
	require.NoError(t, err)

	require.Len(t, got, 5)
	assert.Equal(t, date(2026, time.January, 31), got[0].Date)
	assert.Equal(t, date(2026, time.February, 28), got[1].Date)
	assert.Equal(t, date(2026, time.March, 31), got[2].Date)
	assert.Equal(t, date(2026, time.April, 30), got[3].Date)
	assert.Equal(t, date(2026, time.May, 31), got[4].Date)
}

func TestExpand_MonthlyDayOfMonthOverride(t *testing.T) {
	dom := 15
	seed := recurringSeed("task-3", date(2026, time.January, 1), task.RecurrencePattern{
		Frequency:  task.FrequencyMonthly,
		Interval:   1,
		DayOfMonth: &dom,
	})

	got, err := Expand(seed, date(2026, time.February, 1), date(2026, time.March, 31))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, date(2026, time.February, 15), got[0].Date)
	assert.Equal(t, date(2026, time.March, 15), got[1].Date)
}

func TestExpand_DailyWithInterval(t *testing.T) {
	seed := recurringSeed("task-4", date(2026, time.January, 1), task.RecurrencePattern{
		Frequency: task.FrequencyDaily,
		Interval:  3,
	})

	got, err := Expand(seed, date(2026, time.January, 1), date(2026, time.January, 10))
	require.NoError(t, err)

	require.Len(t, got, 4)
	assert.Equal(t, date(2026, time.January, 1), got[0].Date)
	assert.Equal(t, date(2026, time.January, 4), got[1].Date)
	assert.Equal(t, date(2026, time.January, 7), got[2].Date)
	assert.Equal(t, date(2026, time.January, 10), got[3].Date)
}

func TestExpand_ZeroIntervalMeansOne(t *testing.T) {
	seed := recurringSeed("task-5", date(2026, time.January, 1), task.RecurrencePattern{
		Frequency: task.FrequencyDaily,
	})

	got, err := Expand(seed, date(2026, time.January, 1), date(2026, time.January, 3))
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestExpand_EndDateBoundsGeneration(t *testing.T) {
	end := date(2026, time.January, 15)
	seed := recurringSeed("task-6", date(2026, time.January, 1), task.RecurrencePattern{
		Frequency: task.FrequencyWeekly,
		Interval:  1,
		EndDate:   &end,
	})

	got, err := Expand(seed, date(2026, time.January, 1), date(2026, time.February, 28))
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, date(2026, time.January, 1), got[0].Date)
	assert.Equal(t, date(2026, time.January, 8), got[1].Date)
	assert.Equal(t, date(2026, time.January, 15), got[2].Date)
}

func TestExpand_AnchorBeforeWindowFastForwards(t *testing.T) {
	seed := recurringSeed("task-7", date(2025, time.June, 10), task.RecurrencePattern{
		Frequency: task.FrequencyMonthly,
		Interval:  1,
	})

	got, err := Expand(seed, date(2026, time.January, 1), date(2026, time.February, 28))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, date(2026, time.January, 10), got[0].Date)
	assert.Equal(t, date(2026, time.February, 10), got[1].Date)
}

func TestExpand_AnchorAfterWindow(t *testing.T) {
	seed := recurringSeed("task-8", date(2026, time.June, 1), task.RecurrencePattern{
		Frequency: task.FrequencyDaily,
	})

	got, err := Expand(seed, date(2026, time.January, 1), date(2026, time.January, 31))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpand_Yearly(t *testing.T) {
	seed := recurringSeed("task-10", date(2024, time.March, 1), task.RecurrencePattern{
		Frequency: task.FrequencyYearly,
		Interval:  1,
	})

	got, err := Expand(seed, date(2026, time.January, 1), date(2027, time.December, 31))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, date(2026, time.March, 1), got[0].Date)
	assert.Equal(t, date(2027, time.March, 1), got[1].Date)
}

func TestExpand_NonRecurringSeed(t *testing.T) {
	due := date(2026, time.January, 5)
	seed := task.Task{ID: "task-11", DueDate: &due}

	got, err := Expand(seed, date(2026, time.January, 1), date(2026, time.January, 31))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestExpand_InvalidPattern(t *testing.T) {
	seed := recurringSeed("task-12", date(2026, time.January, 1), task.RecurrencePattern{
		Frequency: "HOURLY",
	})

	_, err := Expand(seed, date(2026, time.January, 1), date(2026, time.January, 31))
	assert.Error(t, err)
}
