package loans

import (
	"fmt"

	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/constants"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/frequency"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/mathutil"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/optimization"
	"go.uber.org/zap"
)

// LoanTerms is the input to a quote.
type LoanTerms struct {
	Principal          float64
	AnnualInterestRate float64 // percent
	PaymentFrequency   frequency.Frequency
}

// Validate checks that principal is finite and positive and that the rate
// is finite and non-negative.
func (t LoanTerms) Validate() error {
	if !mathutil.IsFinite(t.Principal) || t.Principal <= 0 {
		return fmt.Errorf("principal must be a finite positive amount, got %v", t.Principal)
	}
	if !mathutil.IsFinite(t.AnnualInterestRate) || t.AnnualInterestRate < 0 {
		return fmt.Errorf("annual interest rate must be a finite non-negative percentage, got %v", t.AnnualInterestRate)
	}
	return nil
}

// PaymentPlan is one quoted fixed-installment offer.
type PaymentPlan struct {
	Periods          int                 `json:"periods"`
	PeriodLabel      string              `json:"periodLabel"`
	PaymentPerPeriod float64             `json:"paymentPerPeriod"`
	TotalPayment     float64             `json:"totalPayment"`
	TotalInterest    float64             `json:"totalInterest"`
	TotalIVA         float64             `json:"totalIVA"`
	InterestRate     float64             `json:"interestRate"`
	PaymentFrequency frequency.Frequency `json:"paymentFrequency"`
	CAT              float64             `json:"cat"`

	// Convergence of the two solvers behind this plan; not part of the wire format.
	PaymentSummary optimization.Summary `json:"-"`
	IRRSummary     optimization.Summary `json:"-"`
}

// Converged reports whether both solvers converged for this plan.
func (p PaymentPlan) Converged() bool {
	return p.PaymentSummary.Converged && p.IRRSummary.Converged
}

// PeriodicRate converts an annual percentage into the rate charged per period.
func PeriodicRate(annualInterestRate float64, f frequency.Frequency) float64 {
	return mathutil.PercentToRate(annualInterestRate) / frequency.PeriodsPerYear(f)
}

// PlanBuilder assembles payment plans and logs solver non-convergence.
type PlanBuilder struct {
	logger *zap.Logger
}

// NewPlanBuilder creates a new builder instance
func NewPlanBuilder(logger *zap.Logger) *PlanBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanBuilder{logger: logger}
}

// BuildPlans returns one plan per allowed term length of the terms'
// frequency, in policy order. Unknown frequencies are quoted as monthly.
func BuildPlans(terms LoanTerms) []PaymentPlan {
	return NewPlanBuilder(nil).BuildPlans(terms)
}

// BuildPlans returns one plan per allowed term length of the terms'
// frequency, in policy order. Callers wanting another order sort the result.
func (b *PlanBuilder) BuildPlans(terms LoanTerms) []PaymentPlan {
	policy := frequency.Lookup(terms.PaymentFrequency)
	if !terms.PaymentFrequency.IsKnown() {
		b.logger.Debug(fmt.Sprintf("unrecognized payment frequency %q quoted as %s",
			terms.PaymentFrequency, policy.Frequency),
			zap.String("op", "loans.BuildPlans"),
		)
	}

	plans := make([]PaymentPlan, 0, len(policy.TermLengths))
	for _, periods := range policy.TermLengths {
		plans = append(plans, b.BuildPlan(terms, periods))
	}
	return plans
}

// BuildPlan quotes a single term length.
func (b *PlanBuilder) BuildPlan(terms LoanTerms, periods int) PaymentPlan {
	policy := frequency.Lookup(terms.PaymentFrequency)
	rate := PeriodicRate(terms.AnnualInterestRate, policy.Frequency)

	solved := SolveFixedPayment(terms.Principal, rate, periods)
	totals := Simulate(terms.Principal, rate, periods, solved.Payment)

	irr := IRRResult{Summary: optimization.Summary{Solver: IRRSolver, Converged: true}}
	cat := 0.0
	if rate != 0 {
		irr = SolveIRR(CashFlows(terms.Principal, solved.Payment, periods), constants.IRRInitialGuess)
		cat = ComputeCAT(irr.Rate, policy.PeriodsPerYear)
	}

	plan := PaymentPlan{
		Periods:          periods,
		PeriodLabel:      policy.Label,
		PaymentPerPeriod: solved.Payment,
		TotalPayment:     totals.TotalPayment,
		TotalInterest:    totals.TotalInterest,
		TotalIVA:         totals.TotalIVA,
		InterestRate:     terms.AnnualInterestRate,
		PaymentFrequency: policy.Frequency,
		CAT:              cat,
		PaymentSummary:   solved.Summary,
		IRRSummary:       irr.Summary,
	}

	for _, summary := range []optimization.Summary{solved.Summary, irr.Summary} {
		if summary.Converged {
			continue
		}
		b.logger.Warn("solver did not converge; returning best estimate",
			zap.String("op", "loans.BuildPlan"),
			zap.String("solver", summary.Solver),
			zap.Int("periods", periods),
			zap.String("frequency", string(policy.Frequency)),
			zap.Float64("principal", terms.Principal),
			zap.Float64("annualInterestRate", terms.AnnualInterestRate),
			zap.Int("iterations", summary.Iterations),
			zap.Strings("notes", summary.Notes),
		)
	}

	return plan
}
