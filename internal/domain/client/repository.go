package client

import "context"

// ClientRepository defines data access methods for clients.
// All methods include firmID parameter to prevent cross-firm data access.
type ClientRepository interface {
	GetByID(ctx context.Context, id string, firmID string) (Client, error)
	ListByFirm(ctx context.Context, firmID string) ([]Client, error)
}
