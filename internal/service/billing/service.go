package billing

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"

	"github.com/workledger/workledger-backend-go/internal/domain/billing"
	"github.com/workledger/workledger-backend-go/internal/domain/client"
)

type service struct {
	packageRepo billing.PackageRepository
	clientRepo  client.ClientRepository
	now         func() time.Time
}

func NewPackageService(packageRepo billing.PackageRepository, clientRepo client.ClientRepository) billing.PackageService {
	return &service{
		packageRepo: packageRepo,
		clientRepo:  clientRepo,
		now:         time.Now,
	}
}

func (s *service) Create(ctx context.Context, req billing.CreatePackageRequest) (billing.PackageResponse, error) {
	firmID, err := firmIDFromContext(ctx)
	if err != nil {
		return billing.PackageResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return billing.PackageResponse{}, err
	}

	// The client must belong to the same firm.
	if _, err := s.clientRepo.GetByID(ctx, req.ClientID, firmID); err != nil {
		return billing.PackageResponse{}, err
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return billing.PackageResponse{}, fmt.Errorf("failed to parse start_date: %w", err)
	}

	now := s.now().UTC()
	pkg := billing.Package{
		ID:            uuid.NewString(),
		FirmID:        firmID,
		ClientID:      req.ClientID,
		Name:          req.Name,
		ContractValue: req.ContractValue,
		Type:          billing.PackageType(req.Type),
		Status:        billing.PackageStatusActive,
		StartDate:     startDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if req.Frequency != nil {
		f := billing.Frequency(strings.ToUpper(*req.Frequency))
		pkg.Frequency = &f
	}
	if req.EndDate != nil && *req.EndDate != "" {
		endDate, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return billing.PackageResponse{}, fmt.Errorf("failed to parse end_date: %w", err)
		}
		pkg.EndDate = &endDate
	}

	created, err := s.packageRepo.Create(ctx, pkg)
	if err != nil {
		return billing.PackageResponse{}, fmt.Errorf("failed to create package: %w", err)
	}

	return billing.MapPackageToResponse(created), nil
}

func (s *service) Get(ctx context.Context, id string) (billing.PackageResponse, error) {
	firmID, err := firmIDFromContext(ctx)
	if err != nil {
		return billing.PackageResponse{}, err
	}

	pkg, err := s.packageRepo.GetByID(ctx, id, firmID)
	if err != nil {
		return billing.PackageResponse{}, err
	}

	return billing.MapPackageToResponse(pkg), nil
}

func (s *service) List(ctx context.Context, filter billing.PackageFilter) (billing.ListPackagesResponse, error) {
	firmID, err := firmIDFromContext(ctx)
	if err != nil {
		return billing.ListPackagesResponse{}, err
	}

	if err := filter.Validate(); err != nil {
		return billing.ListPackagesResponse{}, err
	}

	packages, totalCount, err := s.packageRepo.List(ctx, filter, firmID)
	if err != nil {
		return billing.ListPackagesResponse{}, fmt.Errorf("failed to list packages: %w", err)
	}

	responses := make([]billing.PackageResponse, 0, len(packages))
	for _, p := range packages {
		responses = append(responses, billing.MapPackageToResponse(p))
	}

	return billing.ListPackagesResponse{
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(filter.Limit))),
		Packages:   responses,
	}, nil
}

func (s *service) Update(ctx context.Context, req billing.UpdatePackageRequest) (billing.PackageResponse, error) {
	firmID, err := firmIDFromContext(ctx)
	if err != nil {
		return billing.PackageResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return billing.PackageResponse{}, err
	}

	pkg, err := s.packageRepo.GetByID(ctx, req.ID, firmID)
	if err != nil {
		return billing.PackageResponse{}, err
	}

	if req.Name != nil {
		pkg.Name = *req.Name
	}
	if req.ContractValue != nil {
		pkg.ContractValue = *req.ContractValue
	}
	if req.Frequency != nil {
		if pkg.Type == billing.PackageTypeOneTime {
			return billing.PackageResponse{}, fmt.Errorf("billing_frequency is not allowed for one-time packages")
		}
		f := billing.Frequency(strings.ToUpper(*req.Frequency))
		pkg.Frequency = &f
	}
	if req.Status != nil {
		pkg.Status = billing.PackageStatus(*req.Status)
	}
	if req.EndDate != nil && *req.EndDate != "" {
		endDate, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return billing.PackageResponse{}, fmt.Errorf("failed to parse end_date: %w", err)
		}
		pkg.EndDate = &endDate
	}
	pkg.UpdatedAt = s.now().UTC()

	if err := s.packageRepo.Update(ctx, pkg); err != nil {
		return billing.PackageResponse{}, fmt.Errorf("failed to update package: %w", err)
	}

	return billing.MapPackageToResponse(pkg), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	firmID, err := firmIDFromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := s.packageRepo.GetByID(ctx, id, firmID); err != nil {
		return err
	}

	return s.packageRepo.Delete(ctx, id, firmID)
}

func firmIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get claims from context: %w", err)
	}

	firmID, ok := claims["firm_id"].(string)
	if !ok || firmID == "" {
		return "", fmt.Errorf("firm_id not found in token")
	}

	return firmID, nil
}
