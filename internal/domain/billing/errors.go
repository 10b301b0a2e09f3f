package billing

import "errors"

// Billing domain errors
var (
	ErrPackageNotFound = errors.New("billing package not found")
)
