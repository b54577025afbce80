package main

import (
	"database/sql"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/migrations"
)

type migrator struct {
	envFile string
	db      *sql.DB
}

func main() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	m := &migrator{}
	root := &cobra.Command{
		Use:               "migrator",
		Short:             "apply the embedded trivia schema migrations",
		SilenceUsage:      true,
		PersistentPreRunE: m.open,
		PersistentPostRun: m.close,
	}
	root.PersistentFlags().StringVar(&m.envFile, "env-file", "configs/.env", "optional dotenv file with PG_* settings")

	root.AddCommand(
		&cobra.Command{Use: "up", Short: "apply all pending migrations", RunE: m.run(migrations.Up, "migrations applied successfully")},
		&cobra.Command{Use: "down", Short: "roll back the latest migration", RunE: m.run(migrations.Down, "migration rolled back successfully")},
		&cobra.Command{Use: "status", Short: "print migration status", RunE: m.run(migrations.Status, "")},
		&cobra.Command{Use: "reset", Short: "roll back every migration", RunE: m.run(migrations.Reset, "migrations reset successfully")},
	)

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("migrator failed")
	}
}

func (m *migrator) open(cmd *cobra.Command, args []string) error {
	if m.envFile != "" {
		if err := godotenv.Load(m.envFile); err != nil {
			log.Warn().Err(err).Str("file", m.envFile).Msg("could not load env file")
		}
	}

	pg, err := config.LoadPostgres()
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", pg.DSN())
	if err != nil {
		return err
	}
	if err := db.PingContext(cmd.Context()); err != nil {
		_ = db.Close()
		return err
	}
	m.db = db

	log.Info().
		Str("host", pg.Host).
		Int("port", pg.Port).
		Str("database", pg.Database).
		Msg("connected to database")
	return nil
}

func (m *migrator) close(*cobra.Command, []string) {
	if m.db != nil {
		_ = m.db.Close()
	}
}

func (m *migrator) run(fn func(*sql.DB) error, done string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(m.db); err != nil {
			return err
		}
		if done != "" {
			log.Info().Msg(done)
		}
		return nil
	}
}
