package response

import (
	"errors"
	"net/http"

	"github.com/workledger/workledger-backend-go/internal/domain/billing"
	"github.com/workledger/workledger-backend-go/internal/domain/client"
	"github.com/workledger/workledger-backend-go/internal/domain/employee"
	"github.com/workledger/workledger-backend-go/internal/domain/task"
	"github.com/workledger/workledger-backend-go/internal/domain/timesheet"
	"github.com/workledger/workledger-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Timer conflicts
	case errors.Is(err, timesheet.ErrTimerAlreadyRunning):
		Conflict(w, err.Error())
	case errors.Is(err, timesheet.ErrTimerAlreadyPaused):
		Conflict(w, err.Error())

	// Invalid timer transitions
	case errors.Is(err, timesheet.ErrTimerNotRunning):
		Conflict(w, err.Error())
	case errors.Is(err, timesheet.ErrTimerNotPaused):
		Conflict(w, err.Error())
	case errors.Is(err, timesheet.ErrTimerNotActive):
		Conflict(w, err.Error())
	case errors.Is(err, timesheet.ErrEntryActive):
		Conflict(w, err.Error())

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrEntryNotFound):
		NotFound(w, "Time entry not found")
	case errors.Is(err, timesheet.ErrNotEntryOwner):
		Forbidden(w, err.Error())

	// Task domain errors
	case errors.Is(err, task.ErrTaskNotFound):
		NotFound(w, "Task not found")
	case errors.Is(err, task.ErrTaskNotAssigned):
		Forbidden(w, err.Error())

	// Billing domain errors
	case errors.Is(err, billing.ErrPackageNotFound):
		NotFound(w, "Billing package not found")

	// Directory domain errors
	case errors.Is(err, client.ErrClientNotFound):
		NotFound(w, "Client not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
