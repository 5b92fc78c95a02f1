package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/frequency"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/loans"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/optimization"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCache(mr.Addr(), "", 0, time.Minute, nil)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()

	plans := []loans.PaymentPlan{{
		Periods:          12,
		PeriodLabel:      "months",
		PaymentPerPeriod: 1033.62,
		TotalPayment:     12403.44,
		InterestRate:     36,
		PaymentFrequency: frequency.Monthly,
		CAT:              50.76,
		PaymentSummary:   optimization.Summary{Solver: loans.FixedPaymentSolver, Iterations: 21, Converged: true},
		IRRSummary:       optimization.Summary{Solver: loans.IRRSolver, Iterations: 4, Converged: true},
	}}

	require.NoError(t, c.Set(ctx, "plans:test", plans))
	assert.True(t, mr.Exists("plans:test"))
	assert.Equal(t, time.Minute, mr.TTL("plans:test"))

	got, ok := c.Get(ctx, "plans:test")
	require.True(t, ok)
	assert.Equal(t, plans, got)
	assert.True(t, got[0].Converged())
}

func TestRedisCacheMissAndExpiry(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "absent")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []loans.PaymentPlan{{Periods: 3}}))
	mr.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisCacheUndecodableEntry(t *testing.T) {
	c, mr := newTestRedis(t)

	require.NoError(t, mr.Set("broken", "{not json"))
	_, ok := c.Get(context.Background(), "broken")
	assert.False(t, ok)
}

func TestRedisCacheUnavailable(t *testing.T) {
	c, mr := newTestRedis(t)
	require.NoError(t, c.Ping(context.Background()))
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, "k", nil))
}
