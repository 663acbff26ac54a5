package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnhub/enrollment-pipeline/internal/core/ports"
	"github.com/learnhub/enrollment-pipeline/internal/infrastructure/config"
	mongodb "github.com/learnhub/enrollment-pipeline/internal/infrastructure/db/mongo"
	"github.com/learnhub/enrollment-pipeline/internal/infrastructure/db/postgres"
	"github.com/learnhub/enrollment-pipeline/internal/infrastructure/http/handlers"
)

// store bundles the repositories of the configured record store.
type store struct {
	accounts    ports.AccountRepository
	enrollments ports.EnrollmentRepository
	ledger      ports.LedgerRepository
	catalog     ports.CourseCatalog
	pinger      handlers.Pinger
	close       func()
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	case config.DriverMongo:
		return openMongo(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     "enrollment-pipeline",
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	return &store{
		accounts:    mongodb.NewAccountRepository(db),
		enrollments: mongodb.NewEnrollmentRepository(db),
		ledger:      mongodb.NewLedgerRepository(db),
		catalog:     mongodb.NewCourseCatalog(db),
		pinger:      mongodb.NewPinger(db),
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				log.Error().Err(err).Msg("mongo disconnect")
			}
		},
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	pool, err := postgres.Connect(ctx, postgres.Config{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Msg("connected to postgres")

	return &store{
		accounts:    postgres.NewAccountRepository(pool),
		enrollments: postgres.NewEnrollmentRepository(pool),
		ledger:      postgres.NewLedgerRepository(pool),
		catalog:     postgres.NewCourseCatalog(pool),
		pinger:      postgres.NewPinger(pool),
		close:       pool.Close,
	}, nil
}
