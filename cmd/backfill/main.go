// Command backfill tags every group that has no trip source with the
// legacy classification. It is safe to run more than once: groups that
// already carry a source are left alone.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/backpackers/internal/config"
	"github.com/pkordes/backpackers/internal/idgen"
	"github.com/pkordes/backpackers/internal/logging"
	"github.com/pkordes/backpackers/internal/repo"
	"github.com/pkordes/backpackers/internal/service"
)

func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "abort the backfill after this long")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	if cfg.StoreDriver != config.StorePostgres {
		logger.Error("backfill needs STORE_DRIVER=postgres", "driver", cfg.StoreDriver)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	groups := repo.NewGroupRepo(pool)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		// Writes through the cached repo drop the directory snapshot.
		groups = repo.NewCachedGroupRepo(groups, rdb, cfg.DirectoryCacheTTL, logger)
	}

	svc := service.NewGroupService(groups, idgen.NewSlugIssuer(time.Now), nil, logger)
	tagged, err := svc.MigrateTripSources(ctx)
	if err != nil {
		logger.Error("backfill failed", "tagged", tagged, "error", err)
		os.Exit(1)
	}
	logger.Info("backfill complete", "tagged", tagged)
}
