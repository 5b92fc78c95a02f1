package main

import (
	"context"
	"fmt"

	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/cache"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/company"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/config"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/resilience"
	"go.uber.org/zap"
)

// buildStore selects PostgreSQL when a DSN is configured and otherwise an
// in-memory store seeded from the config file and companiesFile. The
// returned close function releases the pool.
func buildStore(ctx context.Context, conf *config.Configuration, logger *zap.Logger) (company.Store, func() error, error) {
	noop := func() error { return nil }

	if conf.Database.DSN != "" {
		db, err := company.OpenPostgres(conf.Database)
		if err != nil {
			return nil, noop, err
		}
		pg := company.NewPostgresStore(db, conf.Database.QueryTimeout)
		if err := pg.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, noop, err
		}
		logger.Info("using PostgreSQL company store",
			zap.String("op", "main.buildStore"),
		)
		return company.NewResilientStore(pg, resilience.FromConfiguration(conf.Resilience), logger), pg.Close, nil
	}

	seeded, err := company.LoadSeedFile(conf.CompaniesFile)
	if err != nil {
		return nil, noop, err
	}
	store := company.NewMemoryStore(append(company.FromConfig(conf.Companies), seeded...)...)
	logger.Info("using in-memory company store",
		zap.String("op", "main.buildStore"),
		zap.Int("companies", store.Len()),
	)
	return store, noop, nil
}

// buildCache selects the plan cache backend. The returned close function
// stops background work and releases connections.
func buildCache(ctx context.Context, conf config.CacheConfig, logger *zap.Logger) (cache.PlanCache, func() error, error) {
	switch conf.Backend {
	case config.CacheBackendNone:
		return cache.Noop{}, func() error { return nil }, nil
	case config.CacheBackendRedis:
		rc := cache.NewRedisCache(conf.RedisAddr, conf.RedisPassword, conf.RedisDB, conf.TTL, logger)
		if err := rc.Ping(ctx); err != nil {
			_ = rc.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", conf.RedisAddr, err)
		}
		return rc, rc.Close, nil
	default:
		mc := cache.NewMemoryPlanCache(conf.TTL)
		return mc, func() error { mc.Close(); return nil }, nil
	}
}
