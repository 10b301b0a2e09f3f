package billing

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/workledger/workledger-backend-go/internal/pkg/validator"
)

// ========================================
// BILLING PACKAGE DTOs
// ========================================

type CreatePackageRequest struct {
	ClientID      string          `json:"client_id"`
	Name          string          `json:"name"`
	ContractValue decimal.Decimal `json:"contract_value"`
	Frequency     *string         `json:"billing_frequency,omitempty"`
	Type          string          `json:"package_type"`
	StartDate     string          `json:"start_date"` // YYYY-MM-DD
	EndDate       *string         `json:"end_date,omitempty"`
}

func (r *CreatePackageRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ClientID) {
		errs = append(errs, validator.ValidationError{
			Field:   "client_id",
			Message: "client_id is required",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if r.ContractValue.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "contract_value",
			Message: "contract_value must not be negative",
		})
	}

	if !validator.IsInSlice(r.Type, PackageTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "package_type",
			Message: "package_type must be one of: RECURRING, ONE_TIME",
		})
	}

	// billing_frequency is required iff the package is recurring
	if r.Type == string(PackageTypeRecurring) {
		if r.Frequency == nil || validator.IsEmpty(*r.Frequency) {
			errs = append(errs, validator.ValidationError{
				Field:   "billing_frequency",
				Message: "billing_frequency is required for recurring packages",
			})
		} else if !validator.IsInSlice(strings.ToUpper(*r.Frequency), FrequencyValues) {
			errs = append(errs, validator.ValidationError{
				Field:   "billing_frequency",
				Message: "billing_frequency must be one of: MONTHLY, QUARTERLY, YEARLY",
			})
		}
	} else if r.Type == string(PackageTypeOneTime) && r.Frequency != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "billing_frequency",
			Message: "billing_frequency is not allowed for one-time packages",
		})
	}

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if _, valid := validator.IsValidDate(r.StartDate); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if r.EndDate != nil && *r.EndDate != "" {
		if _, valid := validator.IsValidDate(*r.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdatePackageRequest struct {
	ID            string           `json:"-"`
	Name          *string          `json:"name,omitempty"`
	ContractValue *decimal.Decimal `json:"contract_value,omitempty"`
	Frequency     *string          `json:"billing_frequency,omitempty"`
	Status        *string          `json:"status,omitempty"`
	EndDate       *string          `json:"end_date,omitempty"`
}

func (r *UpdatePackageRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be blank",
		})
	}

	if r.ContractValue != nil && r.ContractValue.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "contract_value",
			Message: "contract_value must not be negative",
		})
	}

	if r.Frequency != nil && !validator.IsInSlice(strings.ToUpper(*r.Frequency), FrequencyValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "billing_frequency",
			Message: "billing_frequency must be one of: MONTHLY, QUARTERLY, YEARLY",
		})
	}

	if r.Status != nil && !validator.IsInSlice(*r.Status, PackageStatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: active, ended",
		})
	}

	if r.EndDate != nil && *r.EndDate != "" {
		if _, valid := validator.IsValidDate(*r.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PackageFilter struct {
	ClientID *string `json:"client_id,omitempty"`
	Type     *string `json:"package_type,omitempty"`
	Status   *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *PackageFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Type != nil && !validator.IsInSlice(*f.Type, PackageTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "package_type",
			Message: "package_type must be one of: RECURRING, ONE_TIME",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, PackageStatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: active, ended",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PackageResponse struct {
	ID            string  `json:"id"`
	ClientID      string  `json:"client_id"`
	ClientName    *string `json:"client_name,omitempty"`
	Name          string  `json:"name"`
	ContractValue string  `json:"contract_value"`
	Frequency     *string `json:"billing_frequency,omitempty"`
	Type          string  `json:"package_type"`
	Status        string  `json:"status"`
	StartDate     string  `json:"start_date"`
	EndDate       *string `json:"end_date,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type ListPackagesResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Packages   []PackageResponse `json:"packages"`
}

// MapPackageToResponse converts a Package entity to PackageResponse.
func MapPackageToResponse(p Package) PackageResponse {
	resp := PackageResponse{
		ID:            p.ID,
		ClientID:      p.ClientID,
		ClientName:    p.ClientName,
		Name:          p.Name,
		ContractValue: p.ContractValue.String(),
		Type:          string(p.Type),
		Status:        string(p.Status),
		StartDate:     p.StartDate.Format("2006-01-02"),
		CreatedAt:     p.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     p.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if p.Frequency != nil {
		f := string(*p.Frequency)
		resp.Frequency = &f
	}
	if p.EndDate != nil {
		d := p.EndDate.Format("2006-01-02")
		resp.EndDate = &d
	}
	return resp
}
