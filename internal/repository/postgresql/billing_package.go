package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/workledger/workledger-backend-go/internal/domain/billing"
	"github.com/workledger/workledger-backend-go/internal/pkg/database"
)

type packageRepository struct {
	db *database.DB
}

func NewPackageRepository(db *database.DB) billing.PackageRepository {
	return &packageRepository{db: db}
}

// Create implements billing.PackageRepository.
func (r *packageRepository) Create(ctx context.Context, pkg billing.Package) (billing.Package, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO billing_packages (
			id, firm_id, client_id, name, contract_value,
			billing_frequency, package_type, status, start_date, end_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		pkg.ID,
		pkg.FirmID,
		pkg.ClientID,
		pkg.Name,
		pkg.ContractValue,
		pkg.Frequency,
		pkg.Type,
		pkg.Status,
		pkg.StartDate,
		pkg.EndDate,
	).Scan(&pkg.CreatedAt, &pkg.UpdatedAt)

	if err != nil {
		return billing.Package{}, fmt.Errorf("failed to create billing package: %w", err)
	}

	return pkg, nil
}

// GetByID implements billing.PackageRepository.
func (r *packageRepository) GetByID(ctx context.Context, id string, firmID string) (billing.Package, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.firm_id, p.client_id, p.name, p.contract_value,
			   p.billing_frequency, p.package_type, p.status, p.start_date, p.end_date,
			   p.created_at, p.updated_at,
			   c.name AS client_name
		FROM billing_packages p
		LEFT JOIN clients c ON c.id = p.client_id
		WHERE p.id = $1 AND p.firm_id = $2
	`

	var pkg billing.Package
	err := q.QueryRow(ctx, query, id, firmID).Scan(
		&pkg.ID, &pkg.FirmID, &pkg.ClientID, &pkg.Name, &pkg.ContractValue,
		&pkg.Frequency, &pkg.Type, &pkg.Status, &pkg.StartDate, &pkg.EndDate,
		&pkg.CreatedAt, &pkg.UpdatedAt,
		&pkg.ClientName,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return billing.Package{}, billing.ErrPackageNotFound
		}
		return billing.Package{}, fmt.Errorf("failed to get billing package by ID: %w", err)
	}

	return pkg, nil
}

// Update implements billing.PackageRepository.
func (r *packageRepository) Update(ctx context.Context, pkg billing.Package) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE billing_packages
		SET name = $1,
			contract_value = $2,
			billing_frequency = $3,
			status = $4,
			end_date = $5,
			updated_at = $6
		WHERE id = $7 AND firm_id = $8
	`

	tag, err := q.Exec(ctx, query,
		pkg.Name,
		pkg.ContractValue,
		pkg.Frequency,
		pkg.Status,
		pkg.EndDate,
		pkg.UpdatedAt,
		pkg.ID,
		pkg.FirmID,
	)
	if err != nil {
		return fmt.Errorf("failed to update billing package: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return billing.ErrPackageNotFound
	}

	return nil
}

// Delete implements billing.PackageRepository.
func (r *packageRepository) Delete(ctx context.Context, id string, firmID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM billing_packages WHERE id = $1 AND firm_id = $2", id, firmID)
	if err != nil {
		return fmt.Errorf("failed to delete billing package: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return billing.ErrPackageNotFound
	}

	return nil
}

// List implements billing.PackageRepository.
func (r *packageRepository) List(ctx context.Context, filter billing.PackageFilter, firmID string) ([]billing.Package, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "p.firm_id = $1"
	args := []interface{}{firmID}
	argIdx := 2

	if filter.ClientID != nil && *filter.ClientID != "" {
		baseWhere += fmt.Sprintf(" AND p.client_id = $%d", argIdx)
		args = append(args, *filter.ClientID)
		argIdx++
	}
	if filter.Type != nil && *filter.Type != "" {
		baseWhere += fmt.Sprintf(" AND p.package_type = $%d", argIdx)
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND p.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM billing_packages p WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count billing packages: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT p.id, p.firm_id, p.client_id, p.name, p.contract_value,
			   p.billing_frequency, p.package_type, p.status, p.start_date, p.end_date,
			   p.created_at, p.updated_at,
			   c.name AS client_name
		FROM billing_packages p
		LEFT JOIN clients c ON c.id = p.client_id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query billing packages: %w", err)
	}
	defer rows.Close()

	var packages []billing.Package
	for rows.Next() {
		var pkg billing.Package
		err := rows.Scan(
			&pkg.ID, &pkg.FirmID, &pkg.ClientID, &pkg.Name, &pkg.ContractValue,
			&pkg.Frequency, &pkg.Type, &pkg.Status, &pkg.StartDate, &pkg.EndDate,
			&pkg.CreatedAt, &pkg.UpdatedAt,
			&pkg.ClientName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan billing package: %w", err)
		}
		packages = append(packages, pkg)
	}

	return packages, total, nil
}

// ListByFirm implements billing.PackageRepository.
func (r *packageRepository) ListByFirm(ctx context.Context, firmID string) ([]billing.Package, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.firm_id, p.client_id, p.name, p.contract_value,
			   p.billing_frequency, p.package_type, p.status, p.start_date, p.end_date,
			   p.created_at, p.updated_at,
			   c.name AS client_name
		FROM billing_packages p
		LEFT JOIN clients c ON c.id = p.client_id
		WHERE p.firm_id = $1
		ORDER BY p.created_at ASC
	`

	rows, err := q.Query(ctx, query, firmID)
	if err != nil {
		return nil, fmt.Errorf("failed to query billing packages: %w", err)
	}
	defer rows.Close()

	var packages []billing.Package
	for rows.Next() {
		var pkg billing.Package
		err := rows.Scan(
			&pkg.ID, &pkg.FirmID, &pkg.ClientID, &pkg.Name, &pkg.ContractValue,
			&pkg.Frequency, &pkg.Type, &pkg.Status, &pkg.StartDate, &pkg.EndDate,
			&pkg.CreatedAt, &pkg.UpdatedAt,
			&pkg.ClientName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan billing package: %w", err)
		}
		packages = append(packages, pkg)
	}

	return packages, nil
}
