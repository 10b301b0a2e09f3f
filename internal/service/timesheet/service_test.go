package timesheet

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workledger/workledger-backend-go/internal/domain/task"
	"github.com/workledger/workledger-backend-go/internal/domain/timesheet"
)

type memEntryRepo struct {
	timesheet.TimeEntryRepository
	entries map[string]timesheet.TimeEntry
}

func newMemEntryRepo() *memEntryRepo {
	return &memEntryRepo{entries: make(map[string]timesheet.TimeEntry)}
}

func (m *memEntryRepo) Create(_ context.Context, entry timesheet.TimeEntry) (timesheet.TimeEntry, error) {
	m.entries[entry.ID] = entry
	return entry, nil
}

func (m *memEntryRepo) GetByID(_ context.Context, id string, firmID string) (timesheet.TimeEntry, error) {
	e, ok := m.entries[id]
	if !ok || e.FirmID != firmID {
		return timesheet.TimeEntry{}, timesheet.ErrEntryNotFound
	}
	return e, nil
}

func (m *memEntryRepo) Update(_ context.Context, entry timesheet.TimeEntry) error {
	m.entries[entry.ID] = entry
	return nil
}

func (m *memEntryRepo) List(_ context.Context, filter timesheet.EntryFilter, firmID string) ([]timesheet.TimeEntry, int64, error) {
	var out []timesheet.TimeEntry
	for _, e := range m.entries {
		if e.FirmID != firmID {
			continue
		}
		if filter.EmployeeID != nil && e.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (m *memEntryRepo) Delete(_ context.Context, id string, firmID string) error {
	e, ok := m.entries[id]
	if !ok || e.FirmID != firmID {
		return timesheet.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

type memTaskRepo struct {
	task.TaskRepository
	tasks map[string]task.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[string]task.Task)}
}

func (m *memTaskRepo) Create(_ context.Context, t task.Task) (task.Task, error) {
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memTaskRepo) GetByID(_ context.Context, id string, firmID string) (task.Task, error) {
	t, ok := m.tasks[id]
	if !ok || t.FirmID != firmID {
		return task.Task{}, task.ErrTaskNotFound
	}
	return t, nil
}

func newTestService(entryRepo *memEntryRepo, taskRepo *memTaskRepo) *service {
	return &service{
		entryRepo: entryRepo,
		taskRepo:  taskRepo,
		now:       func() time.Time { return time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC) },
	}
}

func authedContext(t *testing.T, employeeID, role string) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"firm_id":     "firm-1",
		"role":        role,
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestLog(t *testing.T) {
	entryRepo := newMemEntryRepo()
	taskRepo := newMemTaskRepo()
	taskRepo.tasks["task-1"] = task.Task{
		ID:          "task-1",
		FirmID:      "firm-1",
		Name:        "Annual accounts",
		AssigneeIDs: []string{"emp-1"},
		ClientID:    strPtr("client-1"),
	}
	svc := newTestService(entryRepo, taskRepo)

	resp, err := svc.Log(authedContext(t, "emp-1", "staff"), timesheet.LogEntryRequest{
		TaskID:         strPtr("task-1"),
		Date:           "2026-02-27",
		ElapsedSeconds: 5400,
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-02-27", resp.Date)
	assert.Equal(t, 5400, resp.ElapsedSeconds)
	assert.False(t, resp.IsRunning)
	assert.False(t, resp.IsPaused)
	// Client inherited from the task
	require.NotNil(t, resp.ClientID)
	assert.Equal(t, "client-1", *resp.ClientID)
}

func TestLog_MiscellaneousSynthesizesTask(t *testing.T) {
	entryRepo := newMemEntryRepo()
	taskRepo := newMemTaskRepo()
	svc := newTestService(entryRepo, taskRepo)

	resp, err := svc.Log(authedContext(t, "emp-1", "staff"), timesheet.LogEntryRequest{
		Date:           "2026-02-27",
		ElapsedSeconds: 1800,
		Miscellaneous:  true,
		MiscLabel:      strPtr("Client phone call"),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.TaskID)
	synthesized := taskRepo.tasks[*resp.TaskID]
	assert.Equal(t, "Client phone call", synthesized.Name)
	assert.Equal(t, task.TaskStatusCompleted, synthesized.Status)
}

func TestLog_RejectsNonPositiveDuration(t *testing.T) {
	svc := newTestService(newMemEntryRepo(), newMemTaskRepo())

	_, err := svc.Log(authedContext(t, "emp-1", "staff"), timesheet.LogEntryRequest{
		Date:           "2026-02-27",
		ElapsedSeconds: 0,
		Miscellaneous:  true,
	})
	assert.Error(t, err)
}

func TestGet_OwnerAndAdminOnly(t *testing.T) {
	entryRepo := newMemEntryRepo()
	entryRepo.entries["entry-1"] = timesheet.TimeEntry{
		ID:         "entry-1",
		FirmID:     "firm-1",
		EmployeeID: "emp-1",
		Date:       time.Date(2026, time.February, 27, 0, 0, 0, 0, time.UTC),
	}
	svc := newTestService(entryRepo, newMemTaskRepo())

	_, err := svc.Get(authedContext(t, "emp-1", "staff"), "entry-1")
	assert.NoError(t, err)

	_, err = svc.Get(authedContext(t, "emp-2", "staff"), "entry-1")
	assert.ErrorIs(t, err, timesheet.ErrNotEntryOwner)

	_, err = svc.Get(authedContext(t, "emp-2", "admin"), "entry-1")
	assert.NoError(t, err)
}

func TestList_StaffScopedToSelf(t *testing.T) {
	entryRepo := newMemEntryRepo()
	entryRepo.entries["entry-1"] = timesheet.TimeEntry{
		ID: "entry-1", FirmID: "firm-1", EmployeeID: "emp-1",
		Date: time.Date(2026, time.February, 27, 0, 0, 0, 0, time.UTC),
	}
	entryRepo.entries["entry-2"] = timesheet.TimeEntry{
		ID: "entry-2", FirmID: "firm-1", EmployeeID: "emp-2",
		Date: time.Date(2026, time.February, 27, 0, 0, 0, 0, time.UTC),
	}
	svc := newTestService(entryRepo, newMemTaskRepo())

	// Staff asking for someone else's entries still get their own.
	resp, err := svc.List(authedContext(t, "emp-1", "staff"), timesheet.EntryFilter{
		EmployeeID: strPtr("emp-2"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "emp-1", resp.Entries[0].EmployeeID)

	resp, err = svc.List(authedContext(t, "emp-1", "admin"), timesheet.EntryFilter{})
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 2)
	assert.Equal(t, int64(2), resp.TotalCount)
}

func TestUpdate(t *testing.T) {
	entryRepo := newMemEntryRepo()
	entryRepo.entries["entry-1"] = timesheet.TimeEntry{
		ID:             "entry-1",
		FirmID:         "firm-1",
		EmployeeID:     "emp-1",
		Date:           time.Date(2026, time.February, 27, 0, 0, 0, 0, time.UTC),
		ElapsedSeconds: 3600,
	}
	svc := newTestService(entryRepo, newMemTaskRepo())

	resp, err := svc.Update(authedContext(t, "emp-1", "staff"), timesheet.UpdateEntryRequest{
		ID:             "entry-1",
		ElapsedSeconds: intPtr(4500),
		Description:    strPtr("reconciliation"),
	})
	require.NoError(t, err)

	assert.Equal(t, 4500, resp.ElapsedSeconds)
	require.NotNil(t, resp.Description)
	assert.Equal(t, "reconciliation", *resp.Description)
	// Untouched fields survive
	assert.Equal(t, "2026-02-27", resp.Date)
}

func TestUpdate_ActiveEntryRejected(t *testing.T) {
	entryRepo := newMemEntryRepo()
	entryRepo.entries["entry-1"] = timesheet.TimeEntry{
		ID:         "entry-1",
		FirmID:     "firm-1",
		EmployeeID: "emp-1",
		Date:       time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		IsRunning:  true,
	}
	svc := newTestService(entryRepo, newMemTaskRepo())

	_, err := svc.Update(authedContext(t, "emp-1", "staff"), timesheet.UpdateEntryRequest{
		ID:             "entry-1",
		ElapsedSeconds: intPtr(60),
	})
	assert.ErrorIs(t, err, timesheet.ErrEntryActive)
}

func TestDelete(t *testing.T) {
	entryRepo := newMemEntryRepo()
	entryRepo.entries["entry-1"] = timesheet.TimeEntry{
		ID:         "entry-1",
		FirmID:     "firm-1",
		EmployeeID: "emp-1",
		Date:       time.Date(2026, time.February, 27, 0, 0, 0, 0, time.UTC),
	}
	svc := newTestService(entryRepo, newMemTaskRepo())

	err := svc.Delete(authedContext(t, "emp-2", "staff"), "entry-1")
	assert.ErrorIs(t, err, timesheet.ErrNotEntryOwner)

	err = svc.Delete(authedContext(t, "emp-1", "staff"), "entry-1")
	require.NoError(t, err)

	_, err = svc.Get(authedContext(t, "emp-1", "staff"), "entry-1")
	assert.ErrorIs(t, err, timesheet.ErrEntryNotFound)
}
