package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/codetutor/tutor-api/internal/api/handler"
	"github.com/codetutor/tutor-api/internal/core/ports"
	mongostore "github.com/codetutor/tutor-api/internal/infrastructure/db/mongo"
	pgstore "github.com/codetutor/tutor-api/internal/infrastructure/db/postgres"
	"github.com/codetutor/tutor-api/internal/pkg/config"
)

// store bundles the repositories of the selected backend.
type store struct {
	name     string
	accounts ports.AccountRepository
	progress ports.ProgressRepository
	arcade   ports.ArcadeRepository
	pinger   handler.Pinger
	close    func()
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		return openMongo(ctx, cfg, log)
	case config.StorePostgres:
		return openPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}

	accounts := mongostore.NewAccountRepository(db)
	progress := mongostore.NewProgressRepository(db, cfg.Mongo.Transactions)
	arcade := mongostore.NewArcadeRepository(db)
	if err := mongostore.EnsureIndexes(ctx, accounts, progress, arcade); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	if !cfg.Mongo.Transactions {
		log.Warn().Msg("mongo transactions disabled: pushes rely on guarded per-item writes only")
	}

	return &store{
		name:     "mongodb",
		accounts: accounts,
		progress: progress,
		arcade:   arcade,
		pinger:   mongostore.NewPinger(db),
		close: func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("mongo disconnect")
			}
		},
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	db, err := pgstore.Open(ctx, pgstore.Config{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		return nil, err
	}
	if err := pgstore.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &store{
		name:     "postgres",
		accounts: pgstore.NewAccountRepository(db),
		progress: pgstore.NewProgressRepository(db),
		arcade:   pgstore.NewArcadeRepository(db),
		pinger:   pgstore.NewPinger(db),
		close: func() {
			if err := db.Close(); err != nil {
				log.Error().Err(err).Msg("postgres close")
			}
		},
	}, nil
}
