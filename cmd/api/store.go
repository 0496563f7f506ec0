package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/elmdemo/marketplace/internal/core/ports"
	"github.com/elmdemo/marketplace/internal/infrastructure/config"
	"github.com/elmdemo/marketplace/internal/infrastructure/db/memory"
	"github.com/elmdemo/marketplace/internal/infrastructure/db/mongo"
	"github.com/elmdemo/marketplace/internal/infrastructure/db/postgres"
	"github.com/elmdemo/marketplace/internal/infrastructure/http/handlers"
)

// stores bundles the repositories selected by STORE_DRIVER.
type stores struct {
	accounts ports.AccountRepository
	products ports.ProductRepository
	check    *handlers.DependencyCheck
	close    func(ctx context.Context)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		accounts := mongo.NewAccountRepository(db)
		products := mongo.NewProductRepository(db)
		if err := mongo.EnsureIndexes(ctx, accounts, products); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		check := handlers.MongoCheck(db)
		return &stores{
			accounts: accounts,
			products: products,
			check:    &check,
			close: func(ctx context.Context) {
				if err := client.Disconnect(ctx); err != nil {
					log.Error().Err(err).Msg("mongo disconnect")
				}
			},
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{
			ConnURL:       cfg.Postgres.ConnURL,
			MaxConns:      cfg.Postgres.MaxConns,
			RetryAttempts: cfg.Postgres.RetryAttempts,
			RetryInterval: cfg.Postgres.RetryInterval,
		})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
		check := handlers.PostgresCheck(pool)
		return &stores{
			accounts: postgres.NewAccountRepository(pool),
			products: postgres.NewProductRepository(pool),
			check:    &check,
			close:    func(context.Context) { pool.Close() },
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return &stores{
			accounts: memory.NewAccountRepository(),
			products: memory.NewProductRepository(),
			close:    func(context.Context) {},
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStoreDriver, cfg.StoreDriver)
	}
}
