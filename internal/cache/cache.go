// Package cache stores computed payment plans so repeated quotes for the
// same terms skip the solvers.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/frequency"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/loans"
)

// PlanCache is the port the quote service caches plans through.
type PlanCache interface {
	Get(ctx context.Context, key string) ([]loans.PaymentPlan, bool)
	Set(ctx context.Context, key string, plans []loans.PaymentPlan) error
}

// Key identifies a plan set. The rate is part of the key so a company whose
// rate changes never receives stale plans.
func Key(terms loans.LoanTerms) string {
	return fmt.Sprintf("plans:%.2f:%g:%s", terms.Principal, terms.AnnualInterestRate,
		frequency.Lookup(terms.PaymentFrequency).Frequency)
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// InMemory is a thread-safe in-memory cache with TTL.
type InMemory[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
	ttl   time.Duration
	done  chan struct{}
	once  sync.Once
}

// New creates a new in-memory cache with the given TTL. Call Close to stop
// the background cleanup.
func New[T any](ttl time.Duration) *InMemory[T] {
	c := &InMemory[T]{
		items: make(map[string]entry[T]),
		ttl:   ttl,
		done:  make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Get retrieves a value from the cache. Returns false if not found or expired.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores a value in the cache with the configured TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete removes a value from the cache.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Len returns the number of entries, expired or not.
func (c *InMemory[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the cleanup goroutine.
func (c *InMemory[T]) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *InMemory[T]) cleanup() {
	if c.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.evictExpired(time.Now())
		}
	}
}

func (c *InMemory[T]) evictExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.items {
		if now.After(v.expiresAt) {
			delete(c.items, k)
		}
	}
}

// MemoryPlanCache adapts InMemory to PlanCache. Stored slices are copied so
// callers cannot mutate cached plans.
type MemoryPlanCache struct {
	*InMemory[[]loans.PaymentPlan]
}

// NewMemoryPlanCache creates a plan cache with the given TTL.
func NewMemoryPlanCache(ttl time.Duration) *MemoryPlanCache {
	return &MemoryPlanCache{InMemory: New[[]loans.PaymentPlan](ttl)}
}

// Get returns a copy of the cached plans.
func (c *MemoryPlanCache) Get(_ context.Context, key string) ([]loans.PaymentPlan, bool) {
	plans, ok := c.InMemory.Get(key)
	if !ok {
		return nil, false
	}
	return append([]loans.PaymentPlan(nil), plans...), true
}

// Set stores a copy of plans.
func (c *MemoryPlanCache) Set(_ context.Context, key string, plans []loans.PaymentPlan) error {
	c.InMemory.Set(key, append([]loans.PaymentPlan(nil), plans...))
	return nil
}

// Noop never caches.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]loans.PaymentPlan, bool) { return nil, false }

func (Noop) Set(context.Context, string, []loans.PaymentPlan) error { return nil }
