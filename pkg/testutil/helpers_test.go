package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/loans"
)

func TestFindPlan(t *testing.T) {
	plans := []loans.PaymentPlan{
		{Periods: 3, PaymentPerPeriod: 3567.97},
		{Periods: 6, PaymentPerPeriod: 1875.45},
		{Periods: 12, PaymentPerPeriod: 1033.62},
	}

	tests := []struct {
		name            string
		periods         int
		expectFound     bool
		expectedPayment float64
	}{
		{name: "Find shortest term", periods: 3, expectFound: true, expectedPayment: 3567.97},
		{name: "Find middle term", periods: 6, expectFound: true, expectedPayment: 1875.45},
		{name: "Find longest term", periods: 12, expectFound: true, expectedPayment: 1033.62},
		{name: "Search for term not offered", periods: 9, expectFound: false},
		{name: "Search for zero periods", periods: 0, expectFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindPlan(plans, tt.periods)

			if tt.expectFound {
				if result == nil {
					t.Fatalf("Expected to find plan with %d periods, but got nil", tt.periods)
				}
				if result.PaymentPerPeriod != tt.expectedPayment {
					t.Errorf("Expected payment %.2f, got %.2f", tt.expectedPayment, result.PaymentPerPeriod)
				}
			} else if result != nil {
				t.Errorf("Expected no plan with %d periods, but found %+v", tt.periods, *result)
			}
		})
	}
}

func TestFindPlanReturnsPointerIntoSlice(t *testing.T) {
	plans := []loans.PaymentPlan{{Periods: 12, PaymentPerPeriod: 100}}

	result := FindPlan(plans, 12)
	if result == nil {
		t.Fatal("Expected to find plan")
	}
	result.PaymentPerPeriod = 200

	if plans[0].PaymentPerPeriod != 200 {
		t.Errorf("Expected modification to be reflected in the slice, got %.2f", plans[0].PaymentPerPeriod)
	}
}

func TestFindPlanEmpty(t *testing.T) {
	if result := FindPlan(nil, 12); result != nil {
		t.Errorf("Expected nil for nil slice, got %+v", *result)
	}
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, "companies.yaml", "companies: []\n")

	if filepath.Base(path) != "companies.yaml" {
		t.Errorf("Expected file name companies.yaml, got %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read written file: %v", err)
	}
	if string(data) != "companies: []\n" {
		t.Errorf("Unexpected contents %q", string(data))
	}
}
