package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"

	"github.com/workledger/workledger-backend-go/internal/domain/employee"
	"github.com/workledger/workledger-backend-go/internal/domain/task"
	"github.com/workledger/workledger-backend-go/internal/domain/timesheet"
)

// miscTaskName backs miscellaneous entries that carry no label.
const miscTaskName = "Miscellaneous work"

type service struct {
	entryRepo timesheet.TimeEntryRepository
	taskRepo  task.TaskRepository
	now       func() time.Time
}

func NewTimerService(entryRepo timesheet.TimeEntryRepository, taskRepo task.TaskRepository) timesheet.TimerService {
	return &service{
		entryRepo: entryRepo,
		taskRepo:  taskRepo,
		now:       time.Now,
	}
}

func (s *service) Start(ctx context.Context, req timesheet.StartTimerRequest) (timesheet.TimeEntryResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	clientID := req.ClientID
	packageID := req.PackageID

	// A task-backed timer inherits the task's client and package unless
	// the request overrides them.
	if req.TaskID != nil {
		t, err := s.taskRepo.GetByID(ctx, *req.TaskID, actor.FirmID)
		if err != nil {
			return timesheet.TimeEntryResponse{}, err
		}
		if actor.Role != employee.RoleAdmin && !t.IsAssignedTo(actor.EmployeeID) {
			return timesheet.TimeEntryResponse{}, task.ErrTaskNotAssigned
		}
		if clientID == nil {
			clientID = t.ClientID
		}
		if packageID == nil {
			packageID = t.PackageID
		}
	}

	// Pre-check for a friendlier conflict message; the store's unique
	// index is what actually enforces the invariant under concurrency.
	active, err := s.entryRepo.GetActiveByEmployee(ctx, actor.EmployeeID, actor.FirmID)
	if err != nil {
		return timesheet.TimeEntryResponse{}, fmt.Errorf("failed to check active timer: %w", err)
	}
	if active != nil {
		if active.IsPaused {
			return timesheet.TimeEntryResponse{}, timesheet.ErrTimerAlreadyPaused
		}
		return timesheet.TimeEntryResponse{}, timesheet.ErrTimerAlreadyRunning
	}

	now := s.now().UTC()
	entry := timesheet.TimeEntry{
		ID:              uuid.NewString(),
		FirmID:          actor.FirmID,
		EmployeeID:      actor.EmployeeID,
		ClientID:        clientID,
		PackageID:       packageID,
		TaskID:          req.TaskID,
		Date:            time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Description:     req.Description,
		IsRunning:       true,
		TimerStartedAt:  &now,
		IsMiscellaneous: req.Miscellaneous,
		MiscLabel:       req.MiscLabel,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.entryRepo.Create(ctx, entry)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	return timesheet.MapEntryToResponse(created), nil
}

func (s *service) Pause(ctx context.Context, entryID string) (timesheet.TimeEntryResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	entry, err := s.entryRepo.GetByID(ctx, entryID, actor.FirmID)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}
	if entry.EmployeeID != actor.EmployeeID {
		return timesheet.TimeEntryResponse{}, timesheet.ErrNotEntryOwner
	}
	if !entry.IsRunning {
		return timesheet.TimeEntryResponse{}, timesheet.ErrTimerNotRunning
	}

	now := s.now().UTC()

	// Bank the in-flight interval; whole seconds, floored.
	entry.AccumulatedSeconds += elapsedWholeSeconds(entry.TimerStartedAt, now)
	entry.IsRunning = false
	entry.IsPaused = true
	entry.TimerStartedAt = nil
	entry.PausedAt = &now
	entry.UpdatedAt = now

	if err := s.entryRepo.UpdateTimerState(ctx, entry); err != nil {
		return timesheet.TimeEntryResponse{}, fmt.Errorf("failed to pause timer: %w", err)
	}

	return timesheet.MapEntryToResponse(entry), nil
}

func (s *service) Resume(ctx context.Context, entryID string) (timesheet.TimeEntryResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	entry, err := s.entryRepo.GetByID(ctx, entryID, actor.FirmID)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}
	if entry.EmployeeID != actor.EmployeeID {
		return timesheet.TimeEntryResponse{}, timesheet.ErrNotEntryOwner
	}
	if !entry.IsPaused {
		return timesheet.TimeEntryResponse{}, timesheet.ErrTimerNotPaused
	}

	now := s.now().UTC()
	entry.IsRunning = true
	entry.IsPaused = false
	entry.TimerStartedAt = &now
	entry.PausedAt = nil
	entry.UpdatedAt = now

	if err := s.entryRepo.UpdateTimerState(ctx, entry); err != nil {
		return timesheet.TimeEntryResponse{}, fmt.Errorf("failed to resume timer: %w", err)
	}

	return timesheet.MapEntryToResponse(entry), nil
}

func (s *service) Stop(ctx context.Context, req timesheet.StopTimerRequest) (timesheet.StopTimerResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return timesheet.StopTimerResponse{}, err
	}

	entry, err := s.entryRepo.GetByID(ctx, req.ID, actor.FirmID)
	if err != nil {
		return timesheet.StopTimerResponse{}, err
	}
	if entry.EmployeeID != actor.EmployeeID {
		return timesheet.StopTimerResponse{}, timesheet.ErrNotEntryOwner
	}
	if !entry.IsActive() {
		return timesheet.StopTimerResponse{}, timesheet.ErrTimerNotActive
	}

	now := s.now().UTC()

	total := entry.AccumulatedSeconds
	if entry.IsRunning {
		total += elapsedWholeSeconds(entry.TimerStartedAt, now)
	}

	startedAt := entry.CreatedAt
	entry.ElapsedSeconds = total
	entry.AccumulatedSeconds = 0
	entry.IsRunning = false
	entry.IsPaused = false
	entry.TimerStartedAt = nil
	entry.PausedAt = nil
	entry.StartTime = &startedAt
	entry.EndTime = &now
	entry.UpdatedAt = now

	// Finalize first. The tracked time must survive even when the task
	// side effect below fails.
	if err := s.entryRepo.UpdateTimerState(ctx, entry); err != nil {
		return timesheet.StopTimerResponse{}, fmt.Errorf("failed to stop timer: %w", err)
	}

	resp := timesheet.StopTimerResponse{Entry: timesheet.MapEntryToResponse(entry)}

	if entry.IsMiscellaneous {
		if warning := s.synthesizeMiscTask(ctx, &entry, actor, now); warning != nil {
			resp.Warning = warning
		} else {
			resp.Entry = timesheet.MapEntryToResponse(entry)
		}
	} else if req.MarkTaskComplete && entry.TaskID != nil {
		if err := s.taskRepo.UpdateStatus(ctx, *entry.TaskID, actor.FirmID, task.TaskStatusCompleted); err != nil {
			warning := fmt.Sprintf("time was saved but the task could not be marked complete: %v", err)
			resp.Warning = &warning
		}
	}

	return resp, nil
}

func (s *service) GetActive(ctx context.Context) (timesheet.ActiveTimerResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return timesheet.ActiveTimerResponse{}, err
	}

	entry, err := s.entryRepo.GetActiveByEmployee(ctx, actor.EmployeeID, actor.FirmID)
	if err != nil {
		return timesheet.ActiveTimerResponse{}, fmt.Errorf("failed to get active timer: %w", err)
	}
	if entry == nil {
		return timesheet.ActiveTimerResponse{State: "none"}, nil
	}

	resp := timesheet.ActiveTimerResponse{
		CurrentElapsedSeconds: entry.AccumulatedSeconds,
	}
	entryResp := timesheet.MapEntryToResponse(*entry)
	resp.Entry = &entryResp

	if entry.IsRunning {
		resp.State = "running"
		resp.CurrentElapsedSeconds += elapsedWholeSeconds(entry.TimerStartedAt, s.now().UTC())
	} else {
		resp.State = "paused"
	}

	return resp, nil
}

// synthesizeMiscTask backs a finalized miscellaneous entry with a completed
// placeholder task so reporting always has a task to attribute time to.
// Returns a warning message instead of an error: the entry is already
// durable and must not be rolled back.
func (s *service) synthesizeMiscTask(ctx context.Context, entry *timesheet.TimeEntry, actor actorClaims, now time.Time) *string {
	name := miscTaskName
	if entry.MiscLabel != nil && *entry.MiscLabel != "" {
		name = *entry.MiscLabel
	}

	created, err := s.taskRepo.Create(ctx, task.Task{
		ID:          uuid.NewString(),
		FirmID:      actor.FirmID,
		Name:        name,
		ClientID:    entry.ClientID,
		PackageID:   entry.PackageID,
		AssigneeIDs: []string{actor.EmployeeID},
		Status:      task.TaskStatusCompleted,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		warning := fmt.Sprintf("time was saved but the miscellaneous task could not be created: %v", err)
		return &warning
	}

	entry.TaskID = &created.ID
	if err := s.entryRepo.Update(ctx, *entry); err != nil {
		warning := fmt.Sprintf("time was saved but could not be linked to its task: %v", err)
		return &warning
	}

	return nil
}

// elapsedWholeSeconds floors the in-flight interval to whole seconds so
// repeated pause/resume cycles never overcount.
func elapsedWholeSeconds(startedAt *time.Time, now time.Time) int {
	if startedAt == nil || now.Before(*startedAt) {
		return 0
	}
	return int(now.Sub(*startedAt) / time.Second)
}

type actorClaims struct {
	EmployeeID string
	FirmID     string
	Role       employee.Role
}

func actorFromContext(ctx context.Context) (actorClaims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return actorClaims{}, fmt.Errorf("failed to get claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return actorClaims{}, fmt.Errorf("employee_id not found in token")
	}

	firmID, ok := claims["firm_id"].(string)
	if !ok || firmID == "" {
		return actorClaims{}, fmt.Errorf("firm_id not found in token")
	}

	role, _ := claims["role"].(string)

	return actorClaims{
		EmployeeID: employeeID,
		FirmID:     firmID,
		Role:       employee.Role(role),
	}, nil
}
