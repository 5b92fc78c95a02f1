package loans

import (
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/constants"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/mathutil"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/optimization"
)

// FixedPaymentSolver is the solver name recorded in convergence summaries.
const FixedPaymentSolver = "fixed-payment"

// FixedPaymentResult is the outcome of SolveFixedPayment.
type FixedPaymentResult struct {
	Payment       float64
	EndingBalance float64
	Summary       optimization.Summary
}

// SolveFixedPayment finds the per-period payment that drives the ending
// balance to zero over numPeriods periods.
//
// The payment is bisected over [0, 2*principal]: a positive ending balance
// raises the floor, anything else lowers the ceiling. The search stops when
// the bracket is no wider than one cent or a midpoint leaves less than one
// cent outstanding. Ending balance never increases as the payment grows, so
// the returned payment is within a cent of the zero crossing. Hitting the
// iteration cap or never finding an overpaying midpoint is reported through
// Summary.Converged rather than an error.
func SolveFixedPayment(principal, periodicRate float64, numPeriods int) FixedPaymentResult {
	summary := optimization.Summary{Solver: FixedPaymentSolver}
	if numPeriods <= 0 {
		summary.Note("term must have at least one period, got %d", numPeriods)
		return FixedPaymentResult{EndingBalance: mathutil.Round(principal), Summary: summary}
	}

	if periodicRate == 0 {
		payment := mathutil.Round(principal / float64(numPeriods))
		summary.Converged = true
		return FixedPaymentResult{
			Payment:       payment,
			EndingBalance: Simulate(principal, periodicRate, numPeriods, payment).EndingBalance,
			Summary:       summary,
		}
	}

	lower := 0.0
	upper := principal * constants.PaymentCeilingMultiplier
	var mid, balance float64
	overpaid := false

	for summary.Iterations < constants.MaxBisectionIterations {
		mid = lower + (upper-lower)/2
		balance = Simulate(principal, periodicRate, numPeriods, mid).EndingBalance
		summary.Iterations++

		if mathutil.IsZero(balance) {
			overpaid = true
			summary.Converged = true
			break
		}
		if balance > 0 {
			lower = mid
		} else {
			upper = mid
			overpaid = true
		}
		if upper-lower <= constants.CurrencyTolerance {
			summary.Converged = overpaid
			break
		}
	}

	if !overpaid {
		summary.Note("no payment up to %.2f amortizes the principal", principal*constants.PaymentCeilingMultiplier)
	} else if !summary.Converged {
		summary.Note("bracket still %.4f wide after %d iterations", upper-lower, summary.Iterations)
	}

	payment := mathutil.Round(mid)
	return FixedPaymentResult{
		Payment:       payment,
		EndingBalance: Simulate(principal, periodicRate, numPeriods, payment).EndingBalance,
		Summary:       summary,
	}
}
