package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyticsDomain "github.com/workledger/workledger-backend-go/internal/domain/analytics"
	"github.com/workledger/workledger-backend-go/internal/domain/billing"
	"github.com/workledger/workledger-backend-go/internal/domain/client"
	"github.com/workledger/workledger-backend-go/internal/domain/employee"
	"github.com/workledger/workledger-backend-go/internal/domain/timesheet"
)

type fakeEntryRepo struct {
	timesheet.TimeEntryRepository
	entries []timesheet.TimeEntry
}

func (f *fakeEntryRepo) ListFinalizedInRange(_ context.Context, start, end time.Time, firmID string) ([]timesheet.TimeEntry, error) {
	var out []timesheet.TimeEntry
	for _, e := range f.entries {
		if e.FirmID != firmID || e.IsActive() {
			continue
		}
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakePackageRepo struct {
	billing.PackageRepository
	packages []billing.Package
}

func (f *fakePackageRepo) ListByFirm(_ context.Context, firmID string) ([]billing.Package, error) {
	var out []billing.Package
	for _, p := range f.packages {
		if p.FirmID == firmID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeClientRepo struct {
	client.ClientRepository
	clients []client.Client
}

func (f *fakeClientRepo) ListByFirm(_ context.Context, firmID string) ([]client.Client, error) {
	var out []client.Client
	for _, c := range f.clients {
		if c.FirmID == firmID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) ListByFirm(_ context.Context, firmID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.FirmID == firmID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string, firmID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id && e.FirmID == firmID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func authedContext(t *testing.T, firmID string) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"firm_id":     firmID,
		"employee_id": "emp-1",
		"role":        "admin",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func strPtr(s string) *string { return &s }

func newTestService(entries []timesheet.TimeEntry, packages []billing.Package, clients []client.Client, employees []employee.Employee) *service {
	return &service{
		entryRepo:    &fakeEntryRepo{entries: entries},
		packageRepo:  &fakePackageRepo{packages: packages},
		clientRepo:   &fakeClientRepo{clients: clients},
		employeeRepo: &fakeEmployeeRepo{employees: employees},
		now:          func() time.Time { return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC) },
	}
}

func monthlyPkg(id, clientID string, value int64) billing.Package {
	f := billing.FrequencyMonthly
	return billing.Package{
		ID:            id,
		FirmID:        "firm-1",
		ClientID:      clientID,
		Name:          "Package " + id,
		ContractValue: decimal.NewFromInt(value),
		Frequency:     &f,
		Type:          billing.PackageTypeRecurring,
		Status:        billing.PackageStatusActive,
	}
}

func TestPackageProfitability(t *testing.T) {
	employees := []employee.Employee{
		{
			ID:                   "emp-1",
			FirmID:               "firm-1",
			FullName:             "Ana",
			MonthlyCost:          decimal.NewFromInt(8000),
			MonthlyCapacityHours: decimal.NewFromInt(160), // 50/h
		},
	}
	packages := []billing.Package{monthlyPkg("pkg-1", "client-1", 12000)}
	entries := []timesheet.TimeEntry{
		{
			ID:             "entry-1",
			FirmID:         "firm-1",
			EmployeeID:     "emp-1",
			PackageID:      strPtr("pkg-1"),
			ClientID:       strPtr("client-1"),
			Date:           time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
			ElapsedSeconds: 7200, // 2h x 50 = 100
		},
	}

	svc := newTestService(entries, packages, nil, employees)
	report, err := svc.PackageProfitability(authedContext(t, "firm-1"), analyticsDomain.Query{Months: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Window.Months)
	require.Len(t, report.Packages, 1)

	pkg := report.Packages[0]
	assert.Equal(t, "pkg-1", pkg.PackageID)
	// Two months of 12000 revenue against one 100-cost entry.
	assert.True(t, pkg.Revenue.Equal(decimal.NewFromInt(24000)), "revenue = %s", pkg.Revenue)
	assert.True(t, pkg.Cost.Equal(decimal.NewFromInt(100)), "cost = %s", pkg.Cost)
	assert.True(t, pkg.Profit.Equal(decimal.NewFromInt(23900)))
	assert.Equal(t, analyticsDomain.StatusOverpaying, pkg.Status)

	require.Len(t, pkg.Months, 2)
	assert.Equal(t, "2026-02", pkg.Months[0].Month)
	assert.True(t, pkg.Months[0].Cost.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "2026-03", pkg.Months[1].Month)
	assert.True(t, pkg.Months[1].Cost.IsZero())

	assert.True(t, report.Totals.Revenue.Equal(decimal.NewFromInt(24000)))
}

func TestPackageProfitability_ActiveTimersExcluded(t *testing.T) {
	employees := []employee.Employee{
		{
			ID:                   "emp-1",
			FirmID:               "firm-1",
			MonthlyCost:          decimal.NewFromInt(8000),
			MonthlyCapacityHours: decimal.NewFromInt(160),
		},
	}
	packages := []billing.Package{monthlyPkg("pkg-1", "client-1", 1000)}
	entries := []timesheet.TimeEntry{
		{
			ID:             "entry-running",
			FirmID:         "firm-1",
			EmployeeID:     "emp-1",
			PackageID:      strPtr("pkg-1"),
			Date:           time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
			ElapsedSeconds: 0,
			IsRunning:      true,
		},
	}

	svc := newTestService(entries, packages, nil, employees)
	report, err := svc.PackageProfitability(authedContext(t, "firm-1"), analyticsDomain.Query{Months: 1})
	require.NoError(t, err)

	require.Len(t, report.Packages, 1)
	assert.True(t, report.Packages[0].Cost.IsZero())
}

func TestClientProfitability(t *testing.T) {
	employees := []employee.Employee{
		{
			ID:                   "emp-1",
			FirmID:               "firm-1",
			MonthlyCost:          decimal.NewFromInt(8000),
			MonthlyCapacityHours: decimal.NewFromInt(160),
		},
	}
	clients := []client.Client{
		{ID: "client-1", FirmID: "firm-1", Name: "Acme"},
		{ID: "client-2", FirmID: "firm-1", Name: "Globex"},
	}
	packages := []billing.Package{
		monthlyPkg("pkg-1", "client-1", 3000),
		monthlyPkg("pkg-2", "client-1", 2000),
	}
	entries := []timesheet.TimeEntry{
		{
			ID:         "entry-1",
			FirmID:     "firm-1",
			EmployeeID: "emp-1",
			// No client_id: attribution falls back to the package's client.
			PackageID:      strPtr("pkg-2"),
			Date:           time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
			ElapsedSeconds: 3600, // 1h x 50 = 50
		},
	}

	svc := newTestService(entries, packages, clients, employees)
	report, err := svc.ClientProfitability(authedContext(t, "firm-1"), analyticsDomain.Query{Months: 1})
	require.NoError(t, err)

	require.Len(t, report.Clients, 2)

	var acme, globex *analyticsDomain.ClientProfitability
	for i := range report.Clients {
		switch report.Clients[i].ClientID {
		case "client-1":
			acme = &report.Clients[i]
		case "client-2":
			globex = &report.Clients[i]
		}
	}
	require.NotNil(t, acme)
	require.NotNil(t, globex)

	assert.Equal(t, 2, acme.PackageCount)
	assert.True(t, acme.Revenue.Equal(decimal.NewFromInt(5000)), "revenue = %s", acme.Revenue)
	assert.True(t, acme.Cost.Equal(decimal.NewFromInt(50)))

	assert.Equal(t, 0, globex.PackageCount)
	assert.True(t, globex.Revenue.IsZero())
	assert.Equal(t, analyticsDomain.StatusHealthy, globex.Status)
}

func TestEmployeeUtilization(t *testing.T) {
	employees := []employee.Employee{
		{
			ID:                   "emp-1",
			FirmID:               "firm-1",
			FullName:             "Ana",
			MonthlyCost:          decimal.NewFromInt(8000),
			MonthlyCapacityHours: decimal.NewFromInt(160),
		},
	}
	entries := []timesheet.TimeEntry{
		{
			ID:             "entry-1",
			FirmID:         "firm-1",
			EmployeeID:     "emp-1",
			Date:           time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC),
			ElapsedSeconds: 288000, // 80h
		},
	}

	svc := newTestService(entries, nil, nil, employees)
	report, err := svc.EmployeeUtilization(authedContext(t, "firm-1"), analyticsDomain.Query{Months: 2})
	require.NoError(t, err)

	require.Len(t, report.Employees, 1)
	emp := report.Employees[0]
	assert.True(t, emp.HourlyCost.Equal(decimal.NewFromInt(50)))
	assert.True(t, emp.LoggedHours.Equal(decimal.NewFromInt(80)))
	assert.True(t, emp.CapacityHours.Equal(decimal.NewFromInt(320)))
	assert.True(t, emp.UtilizationPercent.Equal(decimal.NewFromInt(25)), "utilization = %s", emp.UtilizationPercent)
	assert.True(t, emp.TotalCost.Equal(decimal.NewFromInt(4000)))

	require.Len(t, emp.Months, 2)
	assert.Equal(t, "2026-02", emp.Months[0].Month)
	assert.True(t, emp.Months[0].Cost.Equal(decimal.NewFromInt(4000)))
	assert.True(t, emp.Months[1].Cost.IsZero())
}

func TestAnalytics_RequiresClaims(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	_, err := svc.PackageProfitability(context.Background(), analyticsDomain.Query{})
	assert.Error(t, err)
}

func TestAnalytics_DefaultWindowMonths(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	report, err := svc.PackageProfitability(authedContext(t, "firm-1"), analyticsDomain.Query{})
	require.NoError(t, err)
	assert.Equal(t, analyticsDomain.DefaultWindowMonths, report.Window.Months)
	assert.Equal(t, "2026-03-31", report.Window.EndDate)
	assert.Equal(t, "2025-10-01", report.Window.StartDate)
}
