package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/workledger/workledger-backend-go/internal/domain/client"
	"github.com/workledger/workledger-backend-go/internal/pkg/database"
)

type clientRepository struct {
	db *database.DB
}

func NewClientRepository(db *database.DB) client.ClientRepository {
	return &clientRepository{db: db}
}

// GetByID implements client.ClientRepository.
func (r *clientRepository) GetByID(ctx context.Context, id string, firmID string) (client.Client, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, firm_id, name, email, is_active, created_at, updated_at
		FROM clients
		WHERE id = $1 AND firm_id = $2
	`

	var c client.Client
	err := q.QueryRow(ctx, query, id, firmID).Scan(
		&c.ID, &c.FirmID, &c.Name, &c.Email, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return client.Client{}, client.ErrClientNotFound
		}
		return client.Client{}, fmt.Errorf("failed to get client by ID: %w", err)
	}

	return c, nil
}

// ListByFirm implements client.ClientRepository.
func (r *clientRepository) ListByFirm(ctx context.Context, firmID string) ([]client.Client, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, firm_id, name, email, is_active, created_at, updated_at
		FROM clients
		WHERE firm_id = $1
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, firmID)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []client.Client
	for rows.Next() {
		var c client.Client
		err := rows.Scan(
			&c.ID, &c.FirmID, &c.Name, &c.Email, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}

	return clients, nil
}
