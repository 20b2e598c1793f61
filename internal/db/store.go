package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-dashboard-api/internal/clinic"
	"github.com/hackgods/clinic-dashboard-api/internal/config"
)

// Handle is an open store backend. Close releases the underlying client or
// pool and must be called once.
type Handle struct {
	Store  clinic.Store
	Driver string
	Close  func(ctx context.Context) error
}

// Open connects the backend chosen by cfg.StoreDriver and prepares its
// indexes or schema. Index creation failures are logged, not fatal; a failed
// connection or schema is.
func Open(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Handle, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := ConnectMongo(connectCtx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		name := DatabaseName(cfg.MongoURI, cfg.DBName)
		repo := clinic.NewMongoRepository(client.Database(name))
		if err := repo.EnsureIndexes(connectCtx); err != nil {
			logger.Warn().Err(err).Msg("could not ensure mongo indexes")
		}
		logger.Info().Str("database", name).Msg("connected to MongoDB")
		return &Handle{Store: repo, Driver: cfg.StoreDriver, Close: client.Disconnect}, nil

	case config.DriverPostgres:
		pool, err := ConnectPostgres(connectCtx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		repo := clinic.NewPgRepository(pool)
		if err := repo.EnsureSchema(connectCtx); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info().Msg("connected to Postgres")
		return &Handle{
			Store:  repo,
			Driver: cfg.StoreDriver,
			Close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
