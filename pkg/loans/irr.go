package loans

import (
	"math"

	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/constants"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/mathutil"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/optimization"
)

// IRRSolver is the solver name recorded in convergence summaries.
const IRRSolver = "irr"

// IRRResult is the outcome of SolveIRR.
type IRRResult struct {
	Rate    float64
	Summary optimization.Summary
}

// CashFlows builds the borrower's cash-flow series: the principal received
// followed by numPeriods equal payments. The payments already include
// interest and IVA.
func CashFlows(principal, payment float64, numPeriods int) []float64 {
	if numPeriods < 0 {
		numPeriods = 0
	}
	flows := make([]float64, numPeriods+1)
	flows[0] = -principal
	for t := 1; t <= numPeriods; t++ {
		flows[t] = payment
	}
	return flows
}

// NetPresentValue discounts flows at a periodic rate and also returns the
// derivative with respect to that rate.
func NetPresentValue(flows []float64, rate float64) (npv, derivative float64) {
	base := 1 + rate
	for t, flow := range flows {
		npv += flow * math.Pow(base, -float64(t))
		derivative += -float64(t) * flow * math.Pow(base, -float64(t)-1)
	}
	return npv, derivative
}

// SolveIRR finds the periodic rate at which the flows have zero net present
// value using Newton-Raphson from initialGuess. It stops once a step is
// smaller than 1e-7. When the iteration cap is reached, the derivative
// vanishes, or the rate leaves the domain (at or below -100%), the last
// iterate is returned with Summary.Converged unset.
func SolveIRR(flows []float64, initialGuess float64) IRRResult {
	summary := optimization.Summary{Solver: IRRSolver}
	rate := initialGuess

	for summary.Iterations < constants.MaxIRRIterations {
		npv, derivative := NetPresentValue(flows, rate)
		summary.Iterations++

		if derivative == 0 || !mathutil.IsFinite(derivative) || !mathutil.IsFinite(npv) {
			summary.Note("derivative unusable at rate %.8f", rate)
			return IRRResult{Rate: rate, Summary: summary}
		}

		next := rate - npv/derivative
		if next <= -1 || !mathutil.IsFinite(next) {
			summary.Note("rate left the domain after %d iterations", summary.Iterations)
			return IRRResult{Rate: rate, Summary: summary}
		}

		step := math.Abs(next - rate)
		rate = next
		if step < constants.IRRTolerance {
			summary.Converged = true
			return IRRResult{Rate: rate, Summary: summary}
		}
	}

	summary.Note("no convergence within %d iterations", constants.MaxIRRIterations)
	return IRRResult{Rate: rate, Summary: summary}
}

// ComputeCAT annualizes a periodic cost-of-credit rate into a percentage
// rounded to two decimals. The rate comes from payments that already carry
// IVA, so no tax factor is applied here.
func ComputeCAT(periodicRate, periodsPerYear float64) float64 {
	return mathutil.Round((math.Pow(1+periodicRate, periodsPerYear) - 1) * constants.PercentageMultiplier)
}
