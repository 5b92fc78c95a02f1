package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/cache"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/company"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/observability"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/frequency"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/loans"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/mathutil"
)

func testCompanies() *company.MemoryStore {
	return company.NewMemoryStore(
		company.Company{ID: "acme", Name: "Acme", InterestRate: 36, PaymentFrequency: frequency.Monthly},
		company.Company{ID: "beta", Name: "Beta", InterestRate: 30, PaymentFrequency: frequency.Biweekly},
		company.Company{ID: "zero", Name: "Zero", InterestRate: 0, PaymentFrequency: frequency.Monthly},
		company.Company{ID: "capped", Name: "Capped", InterestRate: 24, PaymentFrequency: frequency.Weekly, MaxCreditAmount: 5000},
		company.Company{ID: "usurer", Name: "Usurer", InterestRate: 60000, PaymentFrequency: frequency.Monthly},
	)
}

func newTestService(t *testing.T, store company.Store) (*Service, *observability.Metrics) {
	t.Helper()
	planCache := cache.NewMemoryPlanCache(time.Minute)
	t.Cleanup(planCache.Close)
	metrics := observability.NewMetrics()
	return NewService(store, planCache, metrics, nil), metrics
}

func TestCalculate(t *testing.T) {
	svc, _ := newTestService(t, testCompanies())

	q, err := svc.Calculate(context.Background(), Request{CompanyID: "acme", Amount: 10000})
	require.NoError(t, err)

	assert.NotEmpty(t, q.ID)
	assert.Equal(t, "acme", q.CompanyID)
	assert.Equal(t, frequency.Monthly, q.Frequency)
	assert.False(t, q.Cached)
	require.Len(t, q.Plans, 6)

	last := q.Plans[5]
	assert.Equal(t, 12, last.Periods)
	assert.Equal(t, 1033.62, last.PaymentPerPeriod)
	assert.Equal(t, 12403.44, last.TotalPayment)
	assert.Equal(t, 50.76, last.CAT)
	assert.Equal(t, 36.0, last.InterestRate)
}

func TestCalculateUsesCache(t *testing.T) {
	svc, _ := newTestService(t, testCompanies())
	ctx := context.Background()

	first, err := svc.Calculate(ctx, Request{CompanyID: "acme", Amount: 10000})
	require.NoError(t, err)
	second, err := svc.Calculate(ctx, Request{CompanyID: "acme", Amount: 10000})
	require.NoError(t, err)

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Plans, second.Plans)
}

func TestCalculateFrequencySelection(t *testing.T) {
	svc, _ := newTestService(t, testCompanies())
	ctx := context.Background()

	tests := []struct {
		name      string
		companyID string
		override  string
		expected  frequency.Frequency
		firstTerm int
	}{
		{"Company default", "beta", "", frequency.Biweekly, 6},
		{"Override", "acme", "weekly", frequency.Weekly, 12},
		{"Override is normalized", "acme", " Decenal ", frequency.Decenal, 9},
		{"Unknown override quotes monthly", "beta", "quarterly", frequency.Monthly, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := svc.Calculate(ctx, Request{CompanyID: tt.companyID, Amount: 8000, PaymentFrequency: tt.override})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, q.Frequency)
			require.NotEmpty(t, q.Plans)
			assert.Equal(t, tt.firstTerm, q.Plans[0].Periods)
			for _, plan := range q.Plans {
				assert.Equal(t, tt.expected, plan.PaymentFrequency)
			}
		})
	}
}

func TestCalculateZeroRateCompany(t *testing.T) {
	svc, _ := newTestService(t, testCompanies())

	q, err := svc.Calculate(context.Background(), Request{CompanyID: "zero", Amount: 12000})
	require.NoError(t, err)
	for _, plan := range q.Plans {
		assert.Equal(t, mathutil.Round(12000/float64(plan.Periods)), plan.PaymentPerPeriod)
		assert.Zero(t, plan.TotalInterest)
		assert.Zero(t, plan.TotalIVA)
		assert.Zero(t, plan.CAT)
	}
}

func TestCalculateErrors(t *testing.T) {
	svc, metrics := newTestService(t, testCompanies())
	ctx := context.Background()

	_, err := svc.Calculate(ctx, Request{CompanyID: "missing", Amount: 1000})
	var notFound *company.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "not_found", Status(err))

	_, err = svc.Calculate(ctx, Request{CompanyID: "acme", Amount: 0})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "amount", validationErr.Field)

	_, err = svc.Calculate(ctx, Request{CompanyID: " ", Amount: 1000})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "companyId", validationErr.Field)

	_, err = svc.Calculate(ctx, Request{CompanyID: "capped", Amount: 5000.01})
	var limitErr *LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 5000.0, limitErr.Limit)
	assert.Equal(t, 5000.01, limitErr.Requested)

	_, err = svc.Calculate(ctx, Request{CompanyID: "capped", Amount: 5000})
	assert.NoError(t, err)

	assert.Equal(t, 4, seriesCount(t, metrics, "fincentiva_quotes_total"))
	assert.Zero(t, seriesCount(t, metrics, "fincentiva_company_store_errors_total"))
}

func seriesCount(t *testing.T, metrics *observability.Metrics, name string) int {
	t.Helper()
	n, err := testutil.GatherAndCount(metrics.Registry, name)
	require.NoError(t, err)
	return n
}

type failingStore struct {
	err error
}

func (s failingStore) Get(context.Context, string) (company.Company, error) {
	return company.Company{}, s.err
}

func TestCalculateStoreUnavailable(t *testing.T) {
	svc, metrics := newTestService(t, failingStore{err: &company.ErrUnavailable{Err: errors.New("connection refused")}})

	_, err := svc.Calculate(context.Background(), Request{CompanyID: "acme", Amount: 1000})
	var unavailable *company.ErrUnavailable
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "unavailable", Status(err))
	assert.Equal(t, 1, seriesCount(t, metrics, "fincentiva_company_store_errors_total"))
}

func TestCalculateDoesNotCacheNonConvergedPlans(t *testing.T) {
	svc, metrics := newTestService(t, testCompanies())
	ctx := context.Background()

	first, err := svc.Calculate(ctx, Request{CompanyID: "usurer", Amount: 100})
	require.NoError(t, err)
	assert.False(t, first.Plans[0].Converged())

	second, err := svc.Calculate(ctx, Request{CompanyID: "usurer", Amount: 100})
	require.NoError(t, err)
	assert.False(t, second.Cached)
	assert.Equal(t, first.Plans, second.Plans)
	assert.GreaterOrEqual(t, seriesCount(t, metrics, "fincentiva_solver_nonconvergence_total"), 1)
}

func TestSchedule(t *testing.T) {
	svc, _ := newTestService(t, testCompanies())

	result, err := svc.Schedule(context.Background(), ScheduleRequest{CompanyID: "acme", Amount: 10000, Periods: 12})
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, 1033.62, result.Plan.PaymentPerPeriod)
	require.Len(t, result.Schedule, 12)
	assert.Equal(t, 1, result.Schedule[0].Period)
	assert.Equal(t, 300.0, result.Schedule[0].Interest)
	assert.Equal(t, 48.0, result.Schedule[0].IVA)
	assert.Equal(t, 0.03, result.Schedule[11].RemainingBalance)

	var interest float64
	for _, row := range result.Schedule {
		assert.Equal(t, 1033.62, row.Payment)
		interest = mathutil.Round(interest + row.Interest)
	}
	assert.Equal(t, result.Plan.TotalInterest, interest)
}

func TestScheduleRejectsUnofferedTerm(t *testing.T) {
	svc, _ := newTestService(t, testCompanies())

	_, err := svc.Schedule(context.Background(), ScheduleRequest{CompanyID: "acme", Amount: 10000, Periods: 5})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "periods", validationErr.Field)

	result, err := svc.Schedule(context.Background(), ScheduleRequest{CompanyID: "acme", Amount: 10000, Periods: 52, PaymentFrequency: "weekly"})
	require.NoError(t, err)
	assert.Len(t, result.Schedule, 52)
	assert.Equal(t, frequency.Weekly, result.Plan.PaymentFrequency)
}

func TestCompare(t *testing.T) {
	svc, _ := newTestService(t, testCompanies())
	ctx := context.Background()

	comparisons, err := svc.Compare(ctx, "acme", 10000)
	require.NoError(t, err)
	require.Len(t, comparisons, len(frequency.All()))

	for i, f := range frequency.All() {
		assert.Equal(t, f, comparisons[i].PaymentFrequency)
		assert.Equal(t, frequency.PeriodLabel(f), comparisons[i].PeriodLabel)
		assert.Equal(t, loans.BuildPlans(loans.LoanTerms{Principal: 10000, AnnualInterestRate: 36, PaymentFrequency: f}),
			comparisons[i].Plans)
	}

	q, err := svc.Calculate(ctx, Request{CompanyID: "acme", Amount: 10000})
	require.NoError(t, err)
	assert.True(t, q.Cached)
	assert.Equal(t, comparisons[4].Plans, q.Plans)
}

func TestCompareErrors(t *testing.T) {
	svc, _ := newTestService(t, testCompanies())

	_, err := svc.Compare(context.Background(), "missing", 1000)
	var notFound *company.ErrNotFound
	assert.ErrorAs(t, err, &notFound)

	_, err = svc.Compare(context.Background(), "capped", 6000)
	var limitErr *LimitExceededError
	assert.ErrorAs(t, err, &limitErr)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{nil, "success"},
		{&ValidationError{Field: "amount"}, "invalid"},
		{&LimitExceededError{}, "limit_exceeded"},
		{&company.ErrNotFound{ID: "x"}, "not_found"},
		{&company.ErrUnavailable{Err: errors.New("down")}, "unavailable"},
		{errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Status(tt.err))
	}
}
