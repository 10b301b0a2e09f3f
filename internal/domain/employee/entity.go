package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

type Employee struct {
	ID       string
	FirmID   string
	FullName string
	Email    string
	Role     Role

	// Cost profile: monthly compensation and monthly capacity in hours.
	// The hourly cost is always derived, never stored.
	MonthlyCost          decimal.Decimal
	MonthlyCapacityHours decimal.Decimal

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the employee holds the administrative role.
func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}
