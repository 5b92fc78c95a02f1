package quote

import "fmt"

// ValidationError indicates a malformed quote request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// LimitExceededError indicates the requested amount is above the company's credit limit.
type LimitExceededError struct {
	CompanyID string
	Limit     float64
	Requested float64
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("requested amount %.2f exceeds the credit limit of %.2f for company %s",
		e.Requested, e.Limit, e.CompanyID)
}
