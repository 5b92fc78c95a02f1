package validation

import (
	"fmt"
	"strings"

	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/frequency"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/mathutil"
)

// ValidateAmount checks that a requested loan amount is finite and positive.
func ValidateAmount(amount float64) error {
	if !mathutil.IsFinite(amount) {
		return fmt.Errorf("amount must be a finite number")
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be greater than zero, got %.2f", amount)
	}
	return nil
}

// ValidateCompanyID checks that a company identifier was supplied.
func ValidateCompanyID(companyID string) error {
	if strings.TrimSpace(companyID) == "" {
		return fmt.Errorf("companyId is required")
	}
	return nil
}

// ValidateTerm checks that periods is one of the term lengths offered for f.
func ValidateTerm(periods int, f frequency.Frequency) error {
	if !frequency.AllowsTerm(f, periods) {
		return fmt.Errorf("term of %d periods is not offered for %s payments (allowed: %v)",
			periods, frequency.Lookup(f).Frequency, frequency.AllowedTermLengths(f))
	}
	return nil
}

// CompanyValidator checks seeded company records and reports problems as warnings.
type CompanyValidator struct {
	Companies []CompanyConfig
}

// CompanyConfig carries the fields of a company record that affect quoting.
type CompanyConfig struct {
	ID               string
	Name             string
	InterestRate     float64
	PaymentFrequency string
	MaxCreditAmount  float64
}

// ValidateAll validates every company record and returns warnings
func (cv *CompanyValidator) ValidateAll() []string {
	var warnings []string
	seen := make(map[string]bool, len(cv.Companies))

	for _, company := range cv.Companies {
		label := fmt.Sprintf("Company '%s'", company.ID)
		if company.ID == "" {
			warnings = append(warnings, fmt.Sprintf("Company '%s' has no id and cannot be quoted", company.Name))
			continue
		}
		if seen[company.ID] {
			warnings = append(warnings, fmt.Sprintf("%s is defined more than once; the last definition wins", label))
		}
		seen[company.ID] = true

		if !mathutil.IsFinite(company.InterestRate) || company.InterestRate < 0 {
			warnings = append(warnings, fmt.Sprintf("%s has an invalid interest rate %v", label, company.InterestRate))
		}
		if company.MaxCreditAmount < 0 {
			warnings = append(warnings, fmt.Sprintf("%s has a negative credit limit %.2f", label, company.MaxCreditAmount))
		}
		if company.PaymentFrequency != "" {
			if _, err := frequency.Parse(company.PaymentFrequency); err != nil {
				warnings = append(warnings, fmt.Sprintf("%s payment frequency %q is unknown and will be quoted as %s",
					label, company.PaymentFrequency, frequency.Default))
			}
		}
	}

	return warnings
}
