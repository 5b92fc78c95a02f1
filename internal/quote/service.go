// Package quote turns a company's lending terms and a requested amount into
// payment plans, amortization ledgers, and frequency comparisons.
package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/cache"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/company"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/observability"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/frequency"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/loans"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("quote")

const planCacheName = "plans"

// Request asks for every plan offered to a company's employee.
type Request struct {
	CompanyID        string
	Amount           float64
	PaymentFrequency string // optional override of the company's frequency
}

// ScheduleRequest asks for the amortization ledger of one term.
type ScheduleRequest struct {
	CompanyID        string
	Amount           float64
	Periods          int
	PaymentFrequency string
}

// Quote is the result of Calculate.
type Quote struct {
	ID        string
	CompanyID string
	Frequency frequency.Frequency
	Plans     []loans.PaymentPlan
	Cached    bool
}

// ScheduleResult pairs a plan with its period-by-period ledger.
type ScheduleResult struct {
	ID       string            `json:"id"`
	Plan     loans.PaymentPlan `json:"plan"`
	Schedule []loans.Payment   `json:"schedule"`
}

// Comparison holds the plans for one frequency.
type Comparison struct {
	PaymentFrequency frequency.Frequency `json:"paymentFrequency"`
	PeriodLabel      string              `json:"periodLabel"`
	Plans            []loans.PaymentPlan `json:"plans"`
}

// Service computes quotes.
type Service struct {
	store   company.Store
	cache   cache.PlanCache
	builder *loans.PlanBuilder
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewService creates a quote service. A nil cache disables caching and nil
// metrics register into a private, unexported registry.
func NewService(store company.Store, planCache cache.PlanCache, metrics *observability.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if planCache == nil {
		planCache = cache.Noop{}
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	return &Service{
		store:   store,
		cache:   planCache,
		builder: loans.NewPlanBuilder(logger),
		metrics: metrics,
		logger:  logger,
	}
}

// Calculate returns every plan for the request's frequency, or the
// company's stored frequency when the request does not override it.
func (s *Service) Calculate(ctx context.Context, req Request) (quote *Quote, err error) {
	ctx, span := tracer.Start(ctx, "quote.Calculate")
	defer span.End()
	defer s.observe(span, "calculate", time.Now(), &err)

	span.SetAttributes(
		attribute.String("company.id", req.CompanyID),
		attribute.Float64("quote.amount", req.Amount),
	)

	c, err := s.resolveCompany(ctx, req.CompanyID, req.Amount)
	if err != nil {
		return nil, err
	}

	terms := loans.LoanTerms{
		Principal:          req.Amount,
		AnnualInterestRate: c.InterestRate,
		PaymentFrequency:   pickFrequency(req.PaymentFrequency, c),
	}
	if err := terms.Validate(); err != nil {
		return nil, fmt.Errorf("company %s has unusable terms: %w", c.ID, err)
	}
	span.SetAttributes(attribute.String("quote.frequency", string(terms.PaymentFrequency)))

	plans, cached := s.plansFor(ctx, terms)
	quote = &Quote{
		ID:        uuid.NewString(),
		CompanyID: c.ID,
		Frequency: terms.PaymentFrequency,
		Plans:     plans,
		Cached:    cached,
	}

	s.logger.Debug("quote computed",
		zap.String("op", "quote.Calculate"),
		zap.String("quoteId", quote.ID),
		zap.String("companyId", c.ID),
		zap.String("frequency", string(terms.PaymentFrequency)),
		zap.Int("plans", len(plans)),
		zap.Bool("cached", cached),
	)
	return quote, nil
}

// Schedule returns the plan and amortization ledger for one allowed term length.
func (s *Service) Schedule(ctx context.Context, req ScheduleRequest) (result *ScheduleResult, err error) {
	ctx, span := tracer.Start(ctx, "quote.Schedule")
	defer span.End()
	defer s.observe(span, "schedule", time.Now(), &err)

	span.SetAttributes(
		attribute.String("company.id", req.CompanyID),
		attribute.Float64("quote.amount", req.Amount),
		attribute.Int("quote.periods", req.Periods),
	)

	c, err := s.resolveCompany(ctx, req.CompanyID, req.Amount)
	if err != nil {
		return nil, err
	}

	terms := loans.LoanTerms{
		Principal:          req.Amount,
		AnnualInterestRate: c.InterestRate,
		PaymentFrequency:   pickFrequency(req.PaymentFrequency, c),
	}
	if err := validation.ValidateTerm(req.Periods, terms.PaymentFrequency); err != nil {
		return nil, &ValidationError{Field: "periods", Message: err.Error()}
	}
	if err := terms.Validate(); err != nil {
		return nil, fmt.Errorf("company %s has unusable terms: %w", c.ID, err)
	}

	plan := s.builder.BuildPlan(terms, req.Periods)
	s.countNonConvergence([]loans.PaymentPlan{plan})

	rate := loans.PeriodicRate(terms.AnnualInterestRate, terms.PaymentFrequency)
	return &ScheduleResult{
		ID:       uuid.NewString(),
		Plan:     plan,
		Schedule: loans.GenerateSchedule(terms.Principal, rate, req.Periods, plan.PaymentPerPeriod),
	}, nil
}

// Compare returns the plans for every frequency, in frequency.All order.
// Frequencies are computed concurrently.
func (s *Service) Compare(ctx context.Context, companyID string, amount float64) (comparisons []Comparison, err error) {
	ctx, span := tracer.Start(ctx, "quote.Compare")
	defer span.End()
	defer s.observe(span, "compare", time.Now(), &err)

	span.SetAttributes(
		attribute.String("company.id", companyID),
		attribute.Float64("quote.amount", amount),
	)

	c, err := s.resolveCompany(ctx, companyID, amount)
	if err != nil {
		return nil, err
	}

	frequencies := frequency.All()
	comparisons = make([]Comparison, len(frequencies))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range frequencies {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			terms := loans.LoanTerms{Principal: amount, AnnualInterestRate: c.InterestRate, PaymentFrequency: f}
			if err := terms.Validate(); err != nil {
				return fmt.Errorf("company %s has unusable terms: %w", c.ID, err)
			}
			plans, _ := s.plansFor(gctx, terms)
			comparisons[i] = Comparison{
				PaymentFrequency: f,
				PeriodLabel:      frequency.PeriodLabel(f),
				Plans:            plans,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return comparisons, nil
}

func (s *Service) resolveCompany(ctx context.Context, companyID string, amount float64) (company.Company, error) {
	if err := validation.ValidateCompanyID(companyID); err != nil {
		return company.Company{}, &ValidationError{Field: "companyId", Message: err.Error()}
	}
	if err := validation.ValidateAmount(amount); err != nil {
		return company.Company{}, &ValidationError{Field: "amount", Message: err.Error()}
	}

	c, err := s.store.Get(ctx, companyID)
	if err != nil {
		var notFound *company.ErrNotFound
		if !errors.As(err, &notFound) {
			s.metrics.IncrStoreError(storeErrorReason(err))
		}
		return company.Company{}, err
	}

	if c.HasCreditLimit() && amount > c.MaxCreditAmount {
		return company.Company{}, &LimitExceededError{CompanyID: c.ID, Limit: c.MaxCreditAmount, Requested: amount}
	}
	return c, nil
}

func (s *Service) plansFor(ctx context.Context, terms loans.LoanTerms) ([]loans.PaymentPlan, bool) {
	key := cache.Key(terms)
	if plans, ok := s.cache.Get(ctx, key); ok {
		s.metrics.IncrCacheHit(planCacheName)
		return plans, true
	}
	s.metrics.IncrCacheMiss(planCacheName)

	plans := s.builder.BuildPlans(terms)
	s.metrics.AddPlansCalculated(len(plans))

	if s.countNonConvergence(plans) > 0 {
		return plans, false
	}
	if err := s.cache.Set(ctx, key, plans); err != nil {
		s.logger.Warn("failed to cache plans",
			zap.String("op", "quote.plansFor"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return plans, false
}

// countNonConvergence records each non-converged solve and returns how many
// plans carried one.
func (s *Service) countNonConvergence(plans []loans.PaymentPlan) int {
	n := 0
	for _, p := range plans {
		if p.Converged() {
			continue
		}
		n++
		if !p.PaymentSummary.Converged {
			s.metrics.IncrNonConvergence(p.PaymentSummary.Solver)
		}
		if !p.IRRSummary.Converged {
			s.metrics.IncrNonConvergence(p.IRRSummary.Solver)
		}
	}
	return n
}

func (s *Service) observe(span trace.Span, operation string, start time.Time, errp *error) {
	err := *errp
	s.metrics.RecordQuote(operation, Status(err), time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// Status classifies err for metrics and logs.
func Status(err error) string {
	var (
		validationErr *ValidationError
		limitErr      *LimitExceededError
		notFound      *company.ErrNotFound
		unavailable   *company.ErrUnavailable
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &validationErr):
		return "invalid"
	case errors.As(err, &limitErr):
		return "limit_exceeded"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &unavailable):
		return "unavailable"
	default:
		return "error"
	}
}

func storeErrorReason(err error) string {
	var unavailable *company.ErrUnavailable
	if errors.As(err, &unavailable) && unavailable.CircuitOpen() {
		return "circuit_open"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "unavailable"
}

// pickFrequency applies the request override, falling back to the
// company's stored frequency, and resolves unknown values to monthly.
func pickFrequency(override string, c company.Company) frequency.Frequency {
	if override != "" {
		return frequency.Resolve(override)
	}
	return frequency.Resolve(string(c.PaymentFrequency))
}
