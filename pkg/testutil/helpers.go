// Package testutil provides common utility functions for testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/loans"
)

// FindPlan finds the plan with the given number of periods.
// Returns a pointer to the plan if found, nil otherwise.
func FindPlan(plans []loans.PaymentPlan, periods int) *loans.PaymentPlan {
	for i := range plans {
		if plans[i].Periods == periods {
			return &plans[i]
		}
	}
	return nil
}

// WriteFile writes body to name inside a per-test temporary directory and
// returns the full path.
func WriteFile(t testing.TB, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
