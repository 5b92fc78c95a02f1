package company

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/config"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/frequency"
)

const selectCompany = `SELECT id, name, interest_rate, payment_frequency, COALESCE(max_credit_amount, 0)
FROM companies WHERE id = $1`

const schema = `
CREATE TABLE IF NOT EXISTS companies (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  interest_rate NUMERIC(9,4) NOT NULL DEFAULT 0,
  payment_frequency TEXT NOT NULL DEFAULT 'monthly',
  max_credit_amount NUMERIC(14,2)
);`

// PostgresStore reads companies from the companies table.
type PostgresStore struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// OpenPostgres opens a connection pool for cfg.DSN.
func OpenPostgres(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return db, nil
}

// NewPostgresStore wraps an open pool. A non-positive queryTimeout leaves
// deadlines to the caller's context.
func NewPostgresStore(db *sql.DB, queryTimeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, queryTimeout: queryTimeout}
}

// Migrate creates the companies table when it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate companies table: %w", err)
	}
	return nil
}

// Get returns the company stored under id.
func (s *PostgresStore) Get(ctx context.Context, id string) (Company, error) {
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	var (
		c    Company
		freq string
	)
	err := s.db.QueryRowContext(ctx, selectCompany, id).Scan(&c.ID, &c.Name, &c.InterestRate, &freq, &c.MaxCreditAmount)
	if errors.Is(err, sql.ErrNoRows) {
		return Company{}, &ErrNotFound{ID: id}
	}
	if err != nil {
		return Company{}, fmt.Errorf("failed to query company %s: %w", id, err)
	}
	c.PaymentFrequency = frequency.Frequency(freq)
	return c, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
