package analytics

import (
	"github.com/shopspring/decimal"
	"github.com/workledger/workledger-backend-go/internal/pkg/validator"
)

// Profitability is the atomic unit every rollup emits: monthly-equivalent
// revenue and cost, their difference, and the margin in percent rounded to
// two decimals.
type Profitability struct {
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
	Margin  decimal.Decimal `json:"margin"`
}

// HealthStatus is a qualitative label derived from the cost-to-revenue
// ratio using fixed policy thresholds.
type HealthStatus string

const (
	StatusHealthy     HealthStatus = "HEALTHY"
	StatusUnderpaying HealthStatus = "UNDERPAYING"
	StatusOverpaying  HealthStatus = "OVERPAYING"
)

// MonthBucket is one calendar month of a rollup window.
type MonthBucket struct {
	Month string `json:"month"` // YYYY-MM
	Profitability
}

type PackageProfitability struct {
	PackageID   string  `json:"package_id"`
	PackageName string  `json:"package_name"`
	ClientID    string  `json:"client_id"`
	ClientName  *string `json:"client_name,omitempty"`
	Profitability
	Status HealthStatus  `json:"status"`
	Months []MonthBucket `json:"months"`
}

type ClientProfitability struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	Profitability
	PackageCount int           `json:"package_count"`
	Status       HealthStatus  `json:"status"`
	Months       []MonthBucket `json:"months"`
}

type EmployeeUtilization struct {
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       string          `json:"employee_name"`
	HourlyCost         decimal.Decimal `json:"hourly_cost"`
	LoggedHours        decimal.Decimal `json:"logged_hours"`
	CapacityHours      decimal.Decimal `json:"capacity_hours"` // monthly capacity x window months
	UtilizationPercent decimal.Decimal `json:"utilization_percent"`
	TotalCost          decimal.Decimal `json:"total_cost"`
	Months             []MonthBucket   `json:"months"`
}

type PackagesReport struct {
	Window   Window                 `json:"window"`
	Packages []PackageProfitability `json:"packages"`
	Totals   Profitability          `json:"totals"`
}

type ClientsReport struct {
	Window  Window                `json:"window"`
	Clients []ClientProfitability `json:"clients"`
	Totals  Profitability         `json:"totals"`
}

type EmployeesReport struct {
	Window    Window                `json:"window"`
	Employees []EmployeeUtilization `json:"employees"`
}

type Window struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	Months    int    `json:"months"`
}

// Query bounds a rollup. When StartDate/EndDate are unset the window is
// the trailing Months calendar months ending with the current one.
type Query struct {
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Months     int     `json:"months"`
	ClientID   *string `json:"client_id,omitempty"`
	PackageID  *string `json:"package_id,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

const DefaultWindowMonths = 6

func (q *Query) Validate() error {
	var errs validator.ValidationErrors

	if q.Months < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "months",
			Message: "months must be a positive number",
		})
	}
	if q.Months == 0 {
		q.Months = DefaultWindowMonths
	}
	if q.Months > 36 {
		errs = append(errs, validator.ValidationError{
			Field:   "months",
			Message: "months must not exceed 36",
		})
	}

	if q.StartDate != nil && *q.StartDate != "" {
		if _, valid := validator.IsValidDate(*q.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if q.EndDate != nil && *q.EndDate != "" {
		if _, valid := validator.IsValidDate(*q.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if (q.StartDate == nil) != (q.EndDate == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date and end_date must be provided together",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
