package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"

	analyticsDomain "github.com/workledger/workledger-backend-go/internal/domain/analytics"
	"github.com/workledger/workledger-backend-go/internal/domain/billing"
	"github.com/workledger/workledger-backend-go/internal/domain/client"
	"github.com/workledger/workledger-backend-go/internal/domain/employee"
	"github.com/workledger/workledger-backend-go/internal/domain/timesheet"
)

type service struct {
	entryRepo    timesheet.TimeEntryRepository
	packageRepo  billing.PackageRepository
	clientRepo   client.ClientRepository
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewAnalyticsService(
	entryRepo timesheet.TimeEntryRepository,
	packageRepo billing.PackageRepository,
	clientRepo client.ClientRepository,
	employeeRepo employee.EmployeeRepository,
) analyticsDomain.AnalyticsService {
	return &service{
		entryRepo:    entryRepo,
		packageRepo:  packageRepo,
		clientRepo:   clientRepo,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// window is the resolved rollup range with its calendar month keys.
type window struct {
	start  time.Time
	end    time.Time
	months []string // YYYY-MM, ascending
}

func (w window) toResponse() analyticsDomain.Window {
	return analyticsDomain.Window{
		StartDate: w.start.Format("2006-01-02"),
		EndDate:   w.end.Format("2006-01-02"),
		Months:    len(w.months),
	}
}

// resolveWindow computes the rollup range. Explicit dates win; otherwise
// the window is the trailing query.Months calendar months ending with the
// current one.
func (s *service) resolveWindow(query analyticsDomain.Query) (window, error) {
	var start, end time.Time

	if query.StartDate != nil && query.EndDate != nil {
		var err error
		start, err = time.Parse("2006-01-02", *query.StartDate)
		if err != nil {
			return window{}, fmt.Errorf("failed to parse start_date: %w", err)
		}
		end, err = time.Parse("2006-01-02", *query.EndDate)
		if err != nil {
			return window{}, fmt.Errorf("failed to parse end_date: %w", err)
		}
	} else {
		now := s.now().UTC()
		firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		start = firstOfCurrent.AddDate(0, -(query.Months - 1), 0)
		end = firstOfCurrent.AddDate(0, 1, -1)
	}

	var months []string
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		months = append(months, cur.Format("2006-01"))
		cur = cur.AddDate(0, 1, 0)
	}

	return window{start: start, end: end, months: months}, nil
}

// monthlyCost is tracked seconds per employee keyed by YYYY-MM.
type monthlyCost map[string]map[string]int64

func (m monthlyCost) add(month, employeeID string, seconds int64) {
	if m[month] == nil {
		m[month] = make(map[string]int64)
	}
	m[month][employeeID] += seconds
}

func (m monthlyCost) costFor(month string, rates map[string]decimal.Decimal) decimal.Decimal {
	return AggregateCost(m[month], rates)
}

func (s *service) PackageProfitability(ctx context.Context, query analyticsDomain.Query) (analyticsDomain.PackagesReport, error) {
	firmID, err := firmIDFromContext(ctx)
	if err != nil {
		return analyticsDomain.PackagesReport{}, err
	}

	if err := query.Validate(); err != nil {
		return analyticsDomain.PackagesReport{}, err
	}

	win, err := s.resolveWindow(query)
	if err != nil {
		return analyticsDomain.PackagesReport{}, err
	}

	packages, rates, entries, err := s.loadRollupInputs(ctx, firmID, win)
	if err != nil {
		return analyticsDomain.PackagesReport{}, err
	}

	// Group tracked seconds per package per month.
	costByPackage := make(map[string]monthlyCost)
	for _, e := range entries {
		if e.PackageID == nil {
			continue
		}
		if costByPackage[*e.PackageID] == nil {
			costByPackage[*e.PackageID] = make(monthlyCost)
		}
		costByPackage[*e.PackageID].add(e.Date.Format("2006-01"), e.EmployeeID, int64(e.ElapsedSeconds))
	}

	report := analyticsDomain.PackagesReport{
		Window:   win.toResponse(),
		Packages: []analyticsDomain.PackageProfitability{},
	}
	totalRevenue := decimal.Zero
	totalCost := decimal.Zero

	for _, pkg := range packages {
		if query.PackageID != nil && pkg.ID != *query.PackageID {
			continue
		}
		if query.ClientID != nil && pkg.ClientID != *query.ClientID {
			continue
		}

		monthlyRevenue := MonthlyRevenue(pkg)
		buckets := make([]analyticsDomain.MonthBucket, 0, len(win.months))
		pkgRevenue := decimal.Zero
		pkgCost := decimal.Zero

		for _, month := range win.months {
			cost := costByPackage[pkg.ID].costFor(month, rates)
			buckets = append(buckets, analyticsDomain.MonthBucket{
				Month:         month,
				Profitability: ComputeProfitability(monthlyRevenue, cost),
			})
			pkgRevenue = pkgRevenue.Add(monthlyRevenue)
			pkgCost = pkgCost.Add(cost)
		}

		p := ComputeProfitability(pkgRevenue, pkgCost)
		report.Packages = append(report.Packages, analyticsDomain.PackageProfitability{
			PackageID:     pkg.ID,
			PackageName:   pkg.Name,
			ClientID:      pkg.ClientID,
			ClientName:    pkg.ClientName,
			Profitability: p,
			Status:        HealthStatusFor(p),
			Months:        buckets,
		})
		totalRevenue = totalRevenue.Add(pkgRevenue)
		totalCost = totalCost.Add(pkgCost)
	}

	sort.Slice(report.Packages, func(i, j int) bool {
		return report.Packages[i].Profit.LessThan(report.Packages[j].Profit)
	})
	report.Totals = ComputeProfitability(totalRevenue, totalCost)

	return report, nil
}

func (s *service) ClientProfitability(ctx context.Context, query analyticsDomain.Query) (analyticsDomain.ClientsReport, error) {
	firmID, err := firmIDFromContext(ctx)
	if err != nil {
		return analyticsDomain.ClientsReport{}, err
	}

	if err := query.Validate(); err != nil {
		return analyticsDomain.ClientsReport{}, err
	}

	win, err := s.resolveWindow(query)
	if err != nil {
		return analyticsDomain.ClientsReport{}, err
	}

	packages, rates, entries, err := s.loadRollupInputs(ctx, firmID, win)
	if err != nil {
		return analyticsDomain.ClientsReport{}, err
	}

	clients, err := s.clientRepo.ListByFirm(ctx, firmID)
	if err != nil {
		return analyticsDomain.ClientsReport{}, fmt.Errorf("failed to list clients: %w", err)
	}

	// Entries are attributed by their own client_id; entries tagged only
	// with a package inherit the package's client.
	packageClient := make(map[string]string, len(packages))
	for _, pkg := range packages {
		packageClient[pkg.ID] = pkg.ClientID
	}

	costByClient := make(map[string]monthlyCost)
	for _, e := range entries {
		clientID := ""
		if e.ClientID != nil {
			clientID = *e.ClientID
		} else if e.PackageID != nil {
			clientID = packageClient[*e.PackageID]
		}
		if clientID == "" {
			continue
		}
		if costByClient[clientID] == nil {
			costByClient[clientID] = make(monthlyCost)
		}
		costByClient[clientID].add(e.Date.Format("2006-01"), e.EmployeeID, int64(e.ElapsedSeconds))
	}

	revenueByClient := make(map[string]decimal.Decimal)
	packageCount := make(map[string]int)
	for _, pkg := range packages {
		revenueByClient[pkg.ClientID] = revenueByClient[pkg.ClientID].Add(MonthlyRevenue(pkg))
		packageCount[pkg.ClientID]++
	}

	report := analyticsDomain.ClientsReport{
		Window:  win.toResponse(),
		Clients: []analyticsDomain.ClientProfitability{},
	}
	totalRevenue := decimal.Zero
	totalCost := decimal.Zero

	for _, c := range clients {
		if query.ClientID != nil && c.ID != *query.ClientID {
			continue
		}

		monthlyRevenue := revenueByClient[c.ID]
		buckets := make([]analyticsDomain.MonthBucket, 0, len(win.months))
		clientRevenue := decimal.Zero
		clientCost := decimal.Zero

		for _, month := range win.months {
			cost := costByClient[c.ID].costFor(month, rates)
			buckets = append(buckets, analyticsDomain.MonthBucket{
				Month:         month,
				Profitability: ComputeProfitability(monthlyRevenue, cost),
			})
			clientRevenue = clientRevenue.Add(monthlyRevenue)
			clientCost = clientCost.Add(cost)
		}

		p := ComputeProfitability(clientRevenue, clientCost)
		report.Clients = append(report.Clients, analyticsDomain.ClientProfitability{
			ClientID:      c.ID,
			ClientName:    c.Name,
			Profitability: p,
			PackageCount:  packageCount[c.ID],
			Status:        HealthStatusFor(p),
			Months:        buckets,
		})
		totalRevenue = totalRevenue.Add(clientRevenue)
		totalCost = totalCost.Add(clientCost)
	}

	sort.Slice(report.Clients, func(i, j int) bool {
		return report.Clients[i].Profit.LessThan(report.Clients[j].Profit)
	})
	report.Totals = ComputeProfitability(totalRevenue, totalCost)

	return report, nil
}

func (s *service) EmployeeUtilization(ctx context.Context, query analyticsDomain.Query) (analyticsDomain.EmployeesReport, error) {
	firmID, err := firmIDFromContext(ctx)
	if err != nil {
		return analyticsDomain.EmployeesReport{}, err
	}

	if err := query.Validate(); err != nil {
		return analyticsDomain.EmployeesReport{}, err
	}

	win, err := s.resolveWindow(query)
	if err != nil {
		return analyticsDomain.EmployeesReport{}, err
	}

	employees, err := s.employeeRepo.ListByFirm(ctx, firmID)
	if err != nil {
		return analyticsDomain.EmployeesReport{}, fmt.Errorf("failed to list employees: %w", err)
	}

	entries, err := s.entryRepo.ListFinalizedInRange(ctx, win.start, win.end, firmID)
	if err != nil {
		return analyticsDomain.EmployeesReport{}, fmt.Errorf("failed to list time entries: %w", err)
	}

	secondsByEmployee := make(map[string]int64)
	perMonth := make(map[string]map[string]int64) // employee -> month -> seconds
	for _, e := range entries {
		secondsByEmployee[e.EmployeeID] += int64(e.ElapsedSeconds)
		if perMonth[e.EmployeeID] == nil {
			perMonth[e.EmployeeID] = make(map[string]int64)
		}
		perMonth[e.EmployeeID][e.Date.Format("2006-01")] += int64(e.ElapsedSeconds)
	}

	windowMonths := decimal.NewFromInt(int64(len(win.months)))
	report := analyticsDomain.EmployeesReport{
		Window:    win.toResponse(),
		Employees: []analyticsDomain.EmployeeUtilization{},
	}

	for _, emp := range employees {
		if query.EmployeeID != nil && emp.ID != *query.EmployeeID {
			continue
		}

		rate := HourlyCost(emp.MonthlyCost, emp.MonthlyCapacityHours)
		loggedHours := SecondsToHours(secondsByEmployee[emp.ID])
		capacity := emp.MonthlyCapacityHours.Mul(windowMonths)

		utilization := decimal.Zero
		if capacity.Sign() > 0 {
			utilization = loggedHours.Div(capacity).Mul(decimal.NewFromInt(100)).Round(2)
		}

		buckets := make([]analyticsDomain.MonthBucket, 0, len(win.months))
		for _, month := range win.months {
			monthCost := SecondsToHours(perMonth[emp.ID][month]).Mul(rate)
			buckets = append(buckets, analyticsDomain.MonthBucket{
				Month:         month,
				Profitability: analyticsDomain.Profitability{Cost: monthCost},
			})
		}

		report.Employees = append(report.Employees, analyticsDomain.EmployeeUtilization{
			EmployeeID:         emp.ID,
			EmployeeName:       emp.FullName,
			HourlyCost:         rate,
			LoggedHours:        loggedHours,
			CapacityHours:      capacity,
			UtilizationPercent: utilization,
			TotalCost:          loggedHours.Mul(rate),
			Months:             buckets,
		})
	}

	sort.Slice(report.Employees, func(i, j int) bool {
		return report.Employees[i].UtilizationPercent.GreaterThan(report.Employees[j].UtilizationPercent)
	})

	return report, nil
}

// loadRollupInputs fetches the shared inputs of the package and client
// rollups: the firm's packages, the hourly-rate index, and the finalized
// entries inside the window.
func (s *service) loadRollupInputs(ctx context.Context, firmID string, win window) ([]billing.Package, map[string]decimal.Decimal, []timesheet.TimeEntry, error) {
	packages, err := s.packageRepo.ListByFirm(ctx, firmID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list packages: %w", err)
	}

	employees, err := s.employeeRepo.ListByFirm(ctx, firmID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list employees: %w", err)
	}

	entries, err := s.entryRepo.ListFinalizedInRange(ctx, win.start, win.end, firmID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list time entries: %w", err)
	}

	return packages, HourlyRates(employees), entries, nil
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
