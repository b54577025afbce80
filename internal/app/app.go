package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/migrations"
	"github.com/gokatarajesh/trivia-api/internal/db/queries"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/server"
	"github.com/gokatarajesh/trivia-api/internal/telemetry"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	shutdownTracing telemetry.Shutdown
}

// New bootstraps logger, Postgres, the optional Redis cache and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Msg("starting application bootstrap")

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Tracing, cfg.Name, cfg.Env)
	if err != nil {
		return nil, err
	}
	if cfg.Tracing.Enabled {
		logger.Info().
			Bool("otlp_export", cfg.Tracing.OTLPEndpoint != "").
			Float64("sample_ratio", cfg.Tracing.SampleRatio).
			Msg("tracing enabled")
	}

	if cfg.Postgres.AutoMigrate {
		if err := migrate(cfg.Postgres); err != nil {
			_ = shutdownTracing(ctx)
			return nil, err
		}
		logger.Info().Msg("database migrations applied")
	}

	pool, err := pgxpool.New(ctx, cfg.Postgres.PoolDSN())
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	deps := []server.Dependency{{Name: "postgres", Ping: pool.Ping}}

	var (
		redisClient *redis.Client
		cache       trivia.CategoryCache
	)
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		cache = trivia.NewRedisCategoryCache(redisClient, cfg.Redis.CategoryCacheTTL)
		deps = append(deps, server.Dependency{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("category cache enabled")
	} else {
		logger.Warn().Msg("REDIS_ADDR not set; category cache disabled")
	}

	q := queries.New(pool)
	questionRepo := repository.NewQuestionRepository(q)
	categoryRepo := repository.NewCategoryRepository(q)

	triviaSvc := trivia.NewService(questionRepo, categoryRepo, trivia.ServiceOptions{
		Cache:    cache,
		Selector: trivia.NewSelector(cfg.Quiz.RandomSeed),
		PerPage:  cfg.Quiz.QuestionsPerPage,
	}, logger)
	triviaHTTP := trivia.NewHTTPHandler(triviaSvc, logger)

	apiServer := server.NewHTTPServer(cfg, logger, deps, triviaHTTP)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,

		shutdownTracing: shutdownTracing,
	}, nil
}

func migrate(pg config.Postgres) error {
	db, err := sql.Open("pgx", pg.DSN())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()
	return migrations.Up(db)
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	if err := a.shutdownTracing(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("tracer shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return runErr
}
