package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/workledger/workledger-backend-go/internal/domain/employee"
	"github.com/workledger/workledger-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string, firmID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, firm_id, full_name, email, role,
			   monthly_cost, monthly_capacity_hours,
			   is_active, created_at, updated_at
		FROM employees
		WHERE id = $1 AND firm_id = $2
	`

	var e employee.Employee
	err := q.QueryRow(ctx, query, id, firmID).Scan(
		&e.ID, &e.FirmID, &e.FullName, &e.Email, &e.Role,
		&e.MonthlyCost, &e.MonthlyCapacityHours,
		&e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	return e, nil
}

// ListByFirm implements employee.EmployeeRepository.
func (r *employeeRepository) ListByFirm(ctx context.Context, firmID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, firm_id, full_name, email, role,
			   monthly_cost, monthly_capacity_hours,
			   is_active, created_at, updated_at
		FROM employees
		WHERE firm_id = $1
		ORDER BY full_name ASC
	`

	rows, err := q.Query(ctx, query, firmID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		err := rows.Scan(
			&e.ID, &e.FirmID, &e.FullName, &e.Email, &e.Role,
			&e.MonthlyCost, &e.MonthlyCapacityHours,
			&e.IsActive, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, nil
}
