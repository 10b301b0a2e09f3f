package analytics

import (
	"github.com/shopspring/decimal"

	analyticsDomain "github.com/workledger/workledger-backend-go/internal/domain/analytics"
	"github.com/workledger/workledger-backend-go/internal/domain/billing"
	"github.com/workledger/workledger-backend-go/internal/domain/employee"
)

// Health thresholds on the normalized monthly figures. A package whose
// cost exceeds revenue by more than 20% is underpriced; a margin above
// 50% signals the client is overpaying relative to effort.
var (
	underpayingCostRatio = decimal.NewFromFloat(1.2)
	overpayingMargin     = decimal.NewFromInt(50)
)

var (
	monthsPerYear    = decimal.NewFromInt(12)
	monthsPerQuarter = decimal.NewFromInt(3)
	hundred          = decimal.NewFromInt(100)
	secondsPerHour   = decimal.NewFromInt(3600)
)

// HourlyCost derives an employee's hourly rate from the monthly cost
// profile. Zero or negative capacity yields zero so an incomplete
// profile never divides by zero or produces negative rates.
func HourlyCost(monthlyCost, monthlyCapacityHours decimal.Decimal) decimal.Decimal {
	if monthlyCapacityHours.Sign() <= 0 || monthlyCost.Sign() <= 0 {
		return decimal.Zero
	}
	return monthlyCost.Div(monthlyCapacityHours)
}

// MonthlyRevenue normalizes a package's contract value to a monthly
// equivalent. One-time contracts are amortized over twelve months; a
// recurring package with an unknown frequency contributes nothing.
func MonthlyRevenue(pkg billing.Package) decimal.Decimal {
	if pkg.ContractValue.Sign() <= 0 {
		return decimal.Zero
	}

	if pkg.Type == billing.PackageTypeOneTime {
		return pkg.ContractValue.Div(monthsPerYear)
	}

	if pkg.Frequency == nil {
		return decimal.Zero
	}
	switch *pkg.Frequency {
	case billing.FrequencyMonthly:
		return pkg.ContractValue
	case billing.FrequencyQuarterly:
		return pkg.ContractValue.Div(monthsPerQuarter)
	case billing.FrequencyYearly:
		return pkg.ContractValue.Div(monthsPerYear)
	}
	return decimal.Zero
}

// SecondsToHours converts tracked whole seconds to decimal hours.
func SecondsToHours(seconds int64) decimal.Decimal {
	return decimal.NewFromInt(seconds).Div(secondsPerHour)
}

// AggregateCost prices tracked seconds against each employee's hourly
// rate. Entries for employees missing from rates, or whose derived rate
// is zero, contribute no cost rather than failing the rollup.
func AggregateCost(secondsByEmployee map[string]int64, rates map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for employeeID, seconds := range secondsByEmployee {
		rate, ok := rates[employeeID]
		if !ok || rate.Sign() <= 0 || seconds <= 0 {
			continue
		}
		total = total.Add(SecondsToHours(seconds).Mul(rate))
	}
	return total
}

// HourlyRates derives the per-employee rate table for a firm.
func HourlyRates(employees []employee.Employee) map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal, len(employees))
	for _, e := range employees {
		rates[e.ID] = HourlyCost(e.MonthlyCost, e.MonthlyCapacityHours)
	}
	return rates
}

// ComputeProfitability assembles the revenue/cost pair into the full
// profitability figure. Margin is profit as a percent of revenue rounded
// to two decimals; zero revenue yields zero margin regardless of cost.
func ComputeProfitability(revenue, cost decimal.Decimal) analyticsDomain.Profitability {
	profit := revenue.Sub(cost)
	margin := decimal.Zero
	if revenue.Sign() > 0 {
		margin = profit.Div(revenue).Mul(hundred).Round(2)
	}
	return analyticsDomain.Profitability{
		Revenue: revenue,
		Cost:    cost,
		Profit:  profit,
		Margin:  margin,
	}
}

// HealthStatusFor labels a profitability figure. With no revenue, any
// cost at all means the work is unbilled and therefore underpaying.
func HealthStatusFor(p analyticsDomain.Profitability) analyticsDomain.HealthStatus {
	if p.Revenue.Sign() <= 0 {
		if p.Cost.Sign() > 0 {
			return analyticsDomain.StatusUnderpaying
		}
		return analyticsDomain.StatusHealthy
	}
	if p.Cost.Div(p.Revenue).GreaterThan(underpayingCostRatio) {
		return analyticsDomain.StatusUnderpaying
	}
	if p.Margin.GreaterThan(overpayingMargin) {
		return analyticsDomain.StatusOverpaying
	}
	return analyticsDomain.StatusHealthy
}
