package analytics

import "context"

// AnalyticsService composes the cost/revenue normalizer over monthly
// buckets along the package, client, and employee dimensions.
type AnalyticsService interface {
	PackageProfitability(ctx context.Context, query Query) (PackagesReport, error)
	ClientProfitability(ctx context.Context, query Query) (ClientsReport, error)
	EmployeeUtilization(ctx context.Context, query Query) (EmployeesReport, error)
}
