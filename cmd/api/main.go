// Package main is the entry point for the backpackers API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/backpackers/internal/config"
	"github.com/pkordes/backpackers/internal/directory"
	"github.com/pkordes/backpackers/internal/handler"
	"github.com/pkordes/backpackers/internal/idgen"
	"github.com/pkordes/backpackers/internal/logging"
	"github.com/pkordes/backpackers/internal/metrics"
	"github.com/pkordes/backpackers/internal/middleware"
	"github.com/pkordes/backpackers/internal/repo"
	"github.com/pkordes/backpackers/internal/service"
	"github.com/pkordes/backpackers/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Storage ----------------------------------------------------------
	groups, comments, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	messages := repo.NewMemoryMessageLog()
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		messages = repo.NewRedisMessageLog(rdb)
		// Every workflow writes through the cache so each write invalidates
		// the directory snapshot.
		groups = repo.NewCachedGroupRepo(groups, rdb, cfg.DirectoryCacheTTL, logger)
		logger.Info("redis connection established", "directory_cache_ttl", cfg.DirectoryCacheTTL)
	} else {
		logger.Warn("REDIS_URL not set; messages are kept in memory and the directory is not cached")
	}

	// --- Services ---------------------------------------------------------
	m := metrics.New()
	ids, err := idgen.NewGenerator(cfg.NodeID)
	if err != nil {
		logger.Error("failed to create id generator", "node_id", cfg.NodeID, "error", err)
		os.Exit(1)
	}
	engine := directory.NewEngine(directory.Brackets{LowCeiling: cfg.BudgetLowCeiling, HighFloor: cfg.BudgetHighFloor})

	srv := handler.NewServer(handler.Services{
		Groups:    service.NewGroupService(groups, idgen.NewSlugIssuer(time.Now), m, logger),
		Directory: service.NewDirectoryService(groups, engine),
		Joins:     service.NewJoinService(groups, ids, m, logger),
		Comments:  service.NewCommentService(groups, comments, ids, m, logger),
		Messages:  service.NewMessageService(groups, messages, ids, m),
		Metrics:   m.Handler(),
		Logger:    logger,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID, RealIP, Recoverer, Metrics,
	// CORS, Identity, SlogLogger, body limit, rate limit.
	// Identity runs before the logger so log lines carry the caller, and
	// before the rate limiter so buckets are per caller rather than per IP.
	identity := middleware.NewIdentity(middleware.IdentityConfig{
		Secret:   cfg.JWTSecret,
		AdminIDs: cfg.AdminUserIDs,
	})
	if identity.HeaderMode() {
		logger.Warn("JWT_SECRET not set; trusting X-User-Id headers, do not run like this in production")
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewMetrics(m))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(identity.Handler)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Limit)
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "addr", httpSrv.Addr, "store", cfg.StoreDriver)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// openStore returns the group and comment repositories for the configured
// driver. For Postgres it verifies the connection and applies pending
// migrations before returning.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (repo.GroupRepo, repo.CommentRepo, func(), error) {
	if cfg.StoreDriver == config.StoreMemory {
		logger.Warn("using the in-memory store; data is lost on restart")
		store := repo.NewMemoryStore()
		return store.Groups(), store.Comments(), func() {}, nil
	}

	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	if err := migrate(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	return repo.NewGroupRepo(pool), repo.NewCommentRepo(pool), pool.Close, nil
}

// migrate applies every pending goose migration. goose needs database/sql,
// so the pool is wrapped with the pgx stdlib adapter.
func migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	for _, res := range results {
		logger.Info("migration applied", "version", res.Source.Version, "duration", res.Duration)
	}
	return nil
}

func openRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
