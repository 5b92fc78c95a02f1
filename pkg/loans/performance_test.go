package loans

import (
	"testing"
	"time"

	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/frequency"
)

// TestPerformance quotes every frequency across a spread of rates and amounts.
func TestPerformance(t *testing.T) {
	if !testing.Verbose() {
		t.Skip("Skipping performance test. Run with -v to enable.")
	}

	rates := []float64{0, 12, 36, 60, 90}
	amounts := []float64{500, 8000, 25000, 150000}

	start := time.Now()
	quoted := 0
	for _, f := range frequency.All() {
		for _, rate := range rates {
			for _, amount := range amounts {
				plans := BuildPlans(LoanTerms{Principal: amount, AnnualInterestRate: rate, PaymentFrequency: f})
				for _, plan := range plans {
					if !plan.Converged() {
						t.Errorf("%s at %.0f%% for %.2f over %d periods did not converge",
							f, rate, amount, plan.Periods)
					}
				}
				quoted += len(plans)
			}
		}
	}
	elapsed := time.Since(start)

	t.Logf("Performance metrics:")
	t.Logf("  Plans quoted: %d", quoted)
	t.Logf("  Total time: %v", elapsed)
	t.Logf("  Per plan: %v", elapsed/time.Duration(quoted))

	if elapsed > 10*time.Second {
		t.Errorf("Total processing time %v exceeds 10 second threshold", elapsed)
	}
}

func BenchmarkBuildPlans(b *testing.B) {
	terms := LoanTerms{Principal: 10000, AnnualInterestRate: 36, PaymentFrequency: frequency.Weekly}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		BuildPlans(terms)
	}
}

func BenchmarkSolveFixedPayment(b *testing.B) {
	rate := PeriodicRate(36, frequency.Monthly)
	for i := 0; i < b.N; i++ {
		SolveFixedPayment(10000, rate, 12)
	}
}

func BenchmarkSolveIRR(b *testing.B) {
	flows := CashFlows(10000, 1033.62, 12)
	for i := 0; i < b.N; i++ {
		SolveIRR(flows, 0.1)
	}
}
