package employee

import "context"

// EmployeeRepository defines data access methods for employees.
// All methods include firmID parameter to prevent cross-firm data access.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, firmID string) (Employee, error)

	// ListByFirm returns every employee of the firm; the profitability
	// rollup uses it to build the hourly-cost index.
	ListByFirm(ctx context.Context, firmID string) ([]Employee, error)
}
