package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Dir is the directory inside FS that holds the SQL files.
const Dir = "sql"

//go:embed sql/*.sql
var FS embed.FS

// Configure points goose at the embedded migrations.
func Configure() error {
	goose.SetBaseFS(FS)
	goose.SetTableName("goose_db_version")
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Up applies every pending migration.
func Up(db *sql.DB) error {
	if err := Configure(); err != nil {
		return err
	}
	if err := goose.Up(db, Dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func Down(db *sql.DB) error {
	if err := Configure(); err != nil {
		return err
	}
	if err := goose.Down(db, Dir); err != nil {
		return fmt.Errorf("roll back migration: %w", err)
	}
	return nil
}

// Status logs the applied state of every migration.
func Status(db *sql.DB) error {
	if err := Configure(); err != nil {
		return err
	}
	return goose.Status(db, Dir)
}

// Reset rolls back every migration.
func Reset(db *sql.DB) error {
	if err := Configure(); err != nil {
		return err
	}
	if err := goose.Reset(db, Dir); err != nil {
		return fmt.Errorf("reset migrations: %w", err)
	}
	return nil
}
