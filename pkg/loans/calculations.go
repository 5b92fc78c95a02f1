// Package loans provides the fixed-installment quote engine: amortization
// simulation, fixed-payment and internal-rate-of-return solvers, and the
// plan builder that combines them.
package loans

import (
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/constants"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/mathutil"
)

// Payment holds the values for a given period of the amortization ledger.
type Payment struct {
	Period           int     `json:"period"`
	Payment          float64 `json:"payment"`
	Interest         float64 `json:"interest"`
	IVA              float64 `json:"iva"`
	Principal        float64 `json:"principal"`
	RemainingBalance float64 `json:"remainingBalance"`
}

// Simulation holds the outcome of replaying a fixed payment over a term.
// EndingBalance may be negative (overpaid) or positive (underpaid).
type Simulation struct {
	EndingBalance float64
	TotalInterest float64
	TotalIVA      float64
	TotalPayment  float64
}

// CalculateInterestPayment calculates the interest accrued on a balance for one period.
func CalculateInterestPayment(balance, periodicRate float64) float64 {
	return mathutil.Round(balance * periodicRate)
}

// CalculateIVA calculates the tax levied on a period's interest.
func CalculateIVA(interest float64) float64 {
	return mathutil.Round(interest * constants.TaxRate)
}

// amortize replays numPeriods periods, rounding every intermediate value to
// cents as it goes, and calls visit after each one. A payment smaller than
// the first period's interest plus tax makes the balance grow.
func amortize(principal, periodicRate float64, numPeriods int, fixedPayment float64, visit func(Payment)) Simulation {
	balance := mathutil.Round(principal)
	var sim Simulation

	for period := 1; period <= numPeriods; period++ {
		interest := CalculateInterestPayment(balance, periodicRate)
		iva := CalculateIVA(interest)
		principalPortion := mathutil.Round(fixedPayment - (interest + iva))
		balance = mathutil.Round(balance - principalPortion)

		sim.TotalInterest = mathutil.Round(sim.TotalInterest + interest)
		sim.TotalIVA = mathutil.Round(sim.TotalIVA + iva)
		sim.TotalPayment = mathutil.Round(sim.TotalPayment + fixedPayment)

		if visit != nil {
			visit(Payment{
				Period:           period,
				Payment:          mathutil.Round(fixedPayment),
				Interest:         interest,
				IVA:              iva,
				Principal:        principalPortion,
				RemainingBalance: balance,
			})
		}
	}

	sim.EndingBalance = balance
	return sim
}

// Simulate replays a trial fixed payment and reports the ending balance and totals.
func Simulate(principal, periodicRate float64, numPeriods int, fixedPayment float64) Simulation {
	return amortize(principal, periodicRate, numPeriods, fixedPayment, nil)
}

// GenerateSchedule returns the period-by-period ledger for a fixed payment.
func GenerateSchedule(principal, periodicRate float64, numPeriods int, fixedPayment float64) []Payment {
	if numPeriods <= 0 {
		return nil
	}
	schedule := make([]Payment, 0, numPeriods)
	amortize(principal, periodicRate, numPeriods, fixedPayment, func(p Payment) {
		schedule = append(schedule, p)
	})
	return schedule
}
