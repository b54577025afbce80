package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/app"
	"github.com/gokatarajesh/trivia-api/internal/config"
)

func main() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("cmd", "api").Logger()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Warn().Err(err).Msg("could not load configs/.env")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("env", cfg.Env).
		Str("pg_host", cfg.Postgres.Host).
		Str("pg_database", cfg.Postgres.Database).
		Bool("auto_migrate", cfg.Postgres.AutoMigrate).
		Bool("category_cache", cfg.Redis.Enabled()).
		Int("questions_per_page", cfg.Quiz.QuestionsPerPage).
		Bool("seeded_quiz", cfg.Quiz.RandomSeed != 0).
		Msg("trivia api configured")

	appCtx := context.Background()
	instance, err := app.New(appCtx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build app")
	}

	if err := instance.Run(appCtx); err != nil {
		log.Fatal().Err(err).Msg("trivia api stopped with error")
	}
}
