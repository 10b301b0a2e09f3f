package billing

import "context"

// PackageRepository defines data access methods for billing packages.
// All methods include firmID parameter to prevent cross-firm data access.
type PackageRepository interface {
	Create(ctx context.Context, pkg Package) (Package, error)
	GetByID(ctx context.Context, id string, firmID string) (Package, error)
	Update(ctx context.Context, pkg Package) error
	Delete(ctx context.Context, id string, firmID string) error
	List(ctx context.Context, filter PackageFilter, firmID string) ([]Package, int64, error)

	// ListByFirm returns every package of the firm, unpaged; used by the
	// profitability rollup.
	ListByFirm(ctx context.Context, firmID string) ([]Package, error)
}
