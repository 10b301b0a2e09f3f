package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

type PackageType string

const (
	PackageTypeRecurring PackageType = "RECURRING"
	PackageTypeOneTime   PackageType = "ONE_TIME"
)

var PackageTypeValues = []string{
	string(PackageTypeRecurring),
	string(PackageTypeOneTime),
}

type Frequency string

const (
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
)

var FrequencyValues = []string{
	string(FrequencyMonthly),
	string(FrequencyQuarterly),
	string(FrequencyYearly),
}

type PackageStatus string

const (
	PackageStatusActive PackageStatus = "active"
	PackageStatusEnded  PackageStatus = "ended"
)

var PackageStatusValues = []string{
	string(PackageStatusActive),
	string(PackageStatusEnded),
}

// Package is a client billing contract. Frequency is required iff the
// package type is RECURRING; one-time packages have no billing cycle and
// are amortized over twelve months by the revenue normalizer.
type Package struct {
	ID            string
	FirmID        string
	ClientID      string
	Name          string
	ContractValue decimal.Decimal
	Frequency     *Frequency
	Type          PackageType
	Status        PackageStatus
	StartDate     time.Time
	EndDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	ClientName *string
}
