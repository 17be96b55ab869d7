package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/treasury-dashboard/internal/config"
	"github.com/treasury-dashboard/internal/data/fixtures"
	"github.com/treasury-dashboard/internal/data/mongo"
	"github.com/treasury-dashboard/internal/data/postgres"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/platform/metrics"
	"github.com/treasury-dashboard/internal/platform/persistence"
	"github.com/treasury-dashboard/internal/store"
)

// loadState builds the treasury state from the configured seed source.
// Database connections are only held while the seed is read.
func loadState(ctx context.Context, log *slog.Logger, cfg *config.Config, collector *metrics.Collector) (*store.TreasuryState, error) {
	opts := []store.Option{
		store.WithLogger(log),
		store.WithMetrics(collector),
		store.WithHoldAmount(cfg.Treasury.HoldAmount),
		store.WithActivityLimit(cfg.Treasury.ActivityLogLimit),
		store.WithApprover(cfg.Treasury.ApproverEmail),
		store.WithActorUserID(cfg.Treasury.ActorUserID),
		store.WithPolicy(treasury.TransitionPolicy(cfg.Treasury.TransitionPolicy)),
	}

	switch cfg.Treasury.SeedSource {
	case config.SeedSourcePostgres:
		postgresDB, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		defer postgresDB.Close()
		return store.Load(ctx, postgres.NewSeedLoader(log, postgresDB, cfg.Treasury.ActivityLogLimit), opts...)

	case config.SeedSourceMongo:
		mongoDB, err := persistence.NewMongoDB(ctx, log, &cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
		}
		defer func() {
			if err := mongoDB.Close(ctx); err != nil {
				log.Error("Error closing MongoDB connection", "error", err)
			}
		}()
		return store.Load(ctx, mongo.NewSeedLoader(log, mongoDB.Database(), cfg.Treasury.ActivityLogLimit), opts...)

	default:
		return store.Load(ctx, fixtures.NewLoader(), opts...)
	}
}
