package timesheet

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"

	"github.com/workledger/workledger-backend-go/internal/domain/employee"
	"github.com/workledger/workledger-backend-go/internal/domain/task"
	"github.com/workledger/workledger-backend-go/internal/domain/timesheet"
)

const miscTaskName = "Miscellaneous work"

type service struct {
	entryRepo timesheet.TimeEntryRepository
	taskRepo  task.TaskRepository
	now       func() time.Time
}

func NewEntryService(entryRepo timesheet.TimeEntryRepository, taskRepo task.TaskRepository) timesheet.EntryService {
	return &service{
		entryRepo: entryRepo,
		taskRepo:  taskRepo,
		now:       time.Now,
	}
}

// Log records a finished work interval directly, without the timer. The
// entry is born finalized.
func (s *service) Log(ctx context.Context, req timesheet.LogEntryRequest) (timesheet.TimeEntryResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return timesheet.TimeEntryResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}

	clientID := req.ClientID
	packageID := req.PackageID
	taskID := req.TaskID

	if taskID != nil {
		t, err := s.taskRepo.GetByID(ctx, *taskID, actor.FirmID)
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

	now := s.now().UTC()

	// A miscellaneous entry is backed by a completed placeholder task so
	// reporting always has a task to attribute time to. Nothing has been
	// written yet, so a failure here is a hard error, not a warning.
	if req.Miscellaneous {
		name := miscTaskName
		if req.MiscLabel != nil && *req.MiscLabel != "" {
			name = *req.MiscLabel
		}
		created, err := s.taskRepo.Create(ctx, task.Task{
			ID:          uuid.NewString(),
			FirmID:      actor.FirmID,
			Name:        name,
			ClientID:    clientID,
			PackageID:   packageID,
			AssigneeIDs: []string{actor.EmployeeID},
			Status:      task.TaskStatusCompleted,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return timesheet.TimeEntryResponse{}, fmt.Errorf("failed to create miscellaneous task: %w", err)
		}
		taskID = &created.ID
	}

	entry := timesheet.TimeEntry{
		ID:              uuid.NewString(),
		FirmID:          actor.FirmID,
		EmployeeID:      actor.EmployeeID,
		ClientID:        clientID,
		PackageID:       packageID,
		TaskID:          taskID,
		Date:            date,
		ElapsedSeconds:  req.ElapsedSeconds,
		Description:     req.Description,
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

func (s *service) Get(ctx context.Context, id string) (timesheet.TimeEntryResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	entry, err := s.entryRepo.GetByID(ctx, id, actor.FirmID)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	if actor.Role != employee.RoleAdmin && entry.EmployeeID != actor.EmployeeID {
		return timesheet.TimeEntryResponse{}, timesheet.ErrNotEntryOwner
	}

	return timesheet.MapEntryToResponse(entry), nil
}

func (s *service) List(ctx context.Context, filter timesheet.EntryFilter) (timesheet.ListEntriesResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return timesheet.ListEntriesResponse{}, err
	}

	// Staff only see their own entries regardless of the filter.
	if actor.Role != employee.RoleAdmin {
		filter.EmployeeID = &actor.EmployeeID
	}

	if err := filter.Validate(); err != nil {
		return timesheet.ListEntriesResponse{}, err
	}

	entries, totalCount, err := s.entryRepo.List(ctx, filter, actor.FirmID)
	if err != nil {
		return timesheet.ListEntriesResponse{}, fmt.Errorf("failed to list time entries: %w", err)
	}

	responses := make([]timesheet.TimeEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, timesheet.MapEntryToResponse(e))
	}

	return timesheet.ListEntriesResponse{
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(filter.Limit))),
		Entries:    responses,
	}, nil
}

func (s *service) Update(ctx context.Context, req timesheet.UpdateEntryRequest) (timesheet.TimeEntryResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	entry, err := s.entryRepo.GetByID(ctx, req.ID, actor.FirmID)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	if actor.Role != employee.RoleAdmin && entry.EmployeeID != actor.EmployeeID {
		return timesheet.TimeEntryResponse{}, timesheet.ErrNotEntryOwner
	}
	if entry.IsActive() {
		return timesheet.TimeEntryResponse{}, timesheet.ErrEntryActive
	}

	if req.Date != nil && *req.Date != "" {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return timesheet.TimeEntryResponse{}, fmt.Errorf("failed to parse date: %w", err)
		}
		entry.Date = date
	}
	if req.ElapsedSeconds != nil {
		entry.ElapsedSeconds = *req.ElapsedSeconds
	}
	if req.Description != nil {
		entry.Description = req.Description
	}
	if req.TaskID != nil {
		t, err := s.taskRepo.GetByID(ctx, *req.TaskID, actor.FirmID)
		if err != nil {
			return timesheet.TimeEntryResponse{}, err
		}
		if actor.Role != employee.RoleAdmin && !t.IsAssignedTo(actor.EmployeeID) {
			return timesheet.TimeEntryResponse{}, task.ErrTaskNotAssigned
		}
		entry.TaskID = req.TaskID
	}
	if req.ClientID != nil {
		entry.ClientID = req.ClientID
	}
	if req.PackageID != nil {
		entry.PackageID = req.PackageID
	}
	entry.UpdatedAt = s.now().UTC()

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return timesheet.TimeEntryResponse{}, fmt.Errorf("failed to update time entry: %w", err)
	}

	return timesheet.MapEntryToResponse(entry), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	entry, err := s.entryRepo.GetByID(ctx, id, actor.FirmID)
	if err != nil {
		return err
	}

	if actor.Role != employee.RoleAdmin && entry.EmployeeID != actor.EmployeeID {
		return timesheet.ErrNotEntryOwner
	}
	if entry.IsActive() {
		return timesheet.ErrEntryActive
	}

	return s.entryRepo.Delete(ctx, id, actor.FirmID)
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
