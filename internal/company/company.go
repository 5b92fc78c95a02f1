// Package company resolves the lending terms a company offers its employees.
package company

import (
	"context"
	"fmt"

	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/config"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/frequency"
)

// Company is a lending configuration: the annual rate, default payment
// frequency and optional credit limit offered to one company's employees.
type Company struct {
	ID               string              `json:"id" yaml:"id"`
	Name             string              `json:"name" yaml:"name"`
	InterestRate     float64             `json:"interestRate" yaml:"interestRate"` // annual percent
	PaymentFrequency frequency.Frequency `json:"paymentFrequency" yaml:"paymentFrequency"`
	MaxCreditAmount  float64             `json:"maxCreditAmount,omitempty" yaml:"maxCreditAmount,omitempty"` // 0 means no limit
}

// HasCreditLimit reports whether amounts above MaxCreditAmount must be rejected.
func (c Company) HasCreditLimit() bool {
	return c.MaxCreditAmount > 0
}

// Store looks up companies by identifier.
type Store interface {
	Get(ctx context.Context, id string) (Company, error)
}

// ErrNotFound indicates no company is configured under ID.
type ErrNotFound struct {
	ID string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("company configuration not found: %s", e.ID)
}

// FromConfig converts seeded configuration records.
func FromConfig(records []config.CompanyConfig) []Company {
	companies := make([]Company, 0, len(records))
	for _, r := range records {
		companies = append(companies, Company{
			ID:               r.ID,
			Name:             r.Name,
			InterestRate:     r.InterestRate,
			PaymentFrequency: frequency.Frequency(r.PaymentFrequency),
			MaxCreditAmount:  r.MaxCreditAmount,
		})
	}
	return companies
}
