package schedule

import (
	"fmt"
	"time"

	"github.com/workledger/workledger-backend-go/internal/domain/task"
)

// Expand deterministically materializes the occurrence dates of a recurring
// task inside [windowStart, windowEnd] (both inclusive, date precision).
// It is a pure function of the seed and the window: no occurrence is ever
// persisted, and re-running with identical inputs yields identical output.
//
// The anchor is the seed's due date (creation date if unset). An anchor
// before the window is fast-forwarded step by step until it lands in or
// beyond the window; the pattern's own end date bounds generation.
func Expand(seed task.Task, windowStart, windowEnd time.Time) ([]task.Occurrence, error) {
	if !seed.IsRecurring || seed.Recurrence == nil {
		return nil, nil
	}

	p := seed.Recurrence
	if err := p.Validate(); err != nil {
		return nil, err
	}

	anchor := seed.CreatedAt
	if seed.DueDate != nil {
		anchor = *seed.DueDate
	}

	cur := dateOnly(anchor)
	start := dateOnly(windowStart)
	end := dateOnly(windowEnd)
	if end.Before(start) {
		return []task.Occurrence{}, nil
	}

	st := newStepper(p, cur)

	// Fast-forward to the first occurrence at or after windowStart.
	for cur.Before(start) {
		if p.EndDate != nil && cur.After(dateOnly(*p.EndDate)) {
			return []task.Occurrence{}, nil
		}
		cur = st.next(cur)
	}

	occurrences := []task.Occurrence{}
	for !cur.After(end) {
		if p.EndDate != nil && cur.After(dateOnly(*p.EndDate)) {
			break
		}
		occurrences = append(occurrences, makeOccurrence(seed, cur))
		cur = st.next(cur)
	}

	return occurrences, nil
}

// makeOccurrence projects the seed onto a concrete date with a synthetic
// identity traceable back to the seed.
func makeOccurrence(seed task.Task, date time.Time) task.Occurrence {
	return task.Occurrence{
		ID:          fmt.Sprintf("%s:%s", seed.ID, date.Format("2006-01-02")),
		SeedTaskID:  seed.ID,
		Date:        date,
		Name:        seed.Name,
		Description: seed.Description,
		ClientID:    seed.ClientID,
		PackageID:   seed.PackageID,
		AssigneeIDs: seed.AssigneeIDs,
	}
}

// stepper advances a date by one recurrence step. Monthly stepping counts
// months from the anchor instead of chaining AddDate calls, so a clamped
// short month (Jan 31 -> Feb 28) does not drag later occurrences down to
// day 28 permanently.
type stepper struct {
	pattern  *task.RecurrencePattern
	interval int
	anchor   time.Time
	months   int
}

func newStepper(p *task.RecurrencePattern, anchor time.Time) *stepper {
	interval := p.Interval
	if interval < 1 {
		interval = 1
	}
	return &stepper{pattern: p, interval: interval, anchor: anchor}
}

func (s *stepper) next(cur time.Time) time.Time {
	switch s.pattern.Frequency {
	case task.FrequencyDaily:
		return cur.AddDate(0, 0, s.interval)

	case task.FrequencyWeekly:
		if len(s.pattern.DaysOfWeek) > 0 {
			// Scan forward day by day for the next enabled weekday,
			// bounded to a full cycle.
			limit := 7 * s.interval
			for i := 1; i <= limit; i++ {
				d := cur.AddDate(0, 0, i)
				if s.weekdayEnabled(d.Weekday()) {
					return d
				}
			}
			return cur.AddDate(0, 0, limit)
		}
		return cur.AddDate(0, 0, 7*s.interval)

	case task.FrequencyMonthly:
		s.months += s.interval
		year, month := addMonths(s.anchor, s.months)
		day := s.anchor.Day()
		if s.pattern.DayOfMonth != nil {
			day = *s.pattern.DayOfMonth
		}
		// Clamp to the last day of short months (day 31 in April -> 30).
		if last := daysInMonth(year, month); day > last {
			day = last
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	case task.FrequencyYearly:
		return cur.AddDate(s.interval, 0, 0)
	}

	// Unreachable for validated patterns.
	return cur.AddDate(0, 0, s.interval)
}

func (s *stepper) weekdayEnabled(wd time.Weekday) bool {
	for _, d := range s.pattern.DaysOfWeek {
		if time.Weekday(d) == wd {
			return true
		}
	}
	return false
}

func addMonths(anchor time.Time, months int) (int, time.Month) {
	total := int(anchor.Month()) - 1 + months
	year := anchor.Year() + total/12
	month := time.Month(total%12 + 1)
	return year, month
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
