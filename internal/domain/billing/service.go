package billing

import "context"

// PackageService manages client billing packages.
type PackageService interface {
	Create(ctx context.Context, req CreatePackageRequest) (PackageResponse, error)
	Get(ctx context.Context, id string) (PackageResponse, error)
	List(ctx context.Context, filter PackageFilter) (ListPackagesResponse, error)
	Update(ctx context.Context, req UpdatePackageRequest) (PackageResponse, error)
	Delete(ctx context.Context, id string) error
}
