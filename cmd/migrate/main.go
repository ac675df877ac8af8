package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"flowershop/internal/sqlinline"
)

const schemaVersion = "0001_users_pending_orders"

func main() {
	_ = godotenv.Load()

	mode := flag.String("mode", "up", "migration mode: up or down")
	flag.Parse()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set in environment")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer db.Close()

	if err := run(db, *mode, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(db *sql.DB, mode string, out io.Writer) error {
	_, err := db.Exec(`create table if not exists schema_migrations (
		version text primary key,
		applied_at timestamptz not null default now()
	)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	switch mode {
	case "up":
		return migrateUp(db, out)
	case "down":
		return migrateDown(db, out)
	default:
		return fmt.Errorf("unknown mode: %s (use 'up' or 'down')", mode)
	}
}

func migrateUp(db *sql.DB, out io.Writer) error {
	var exists bool
	err := db.QueryRow(`select exists(select 1 from schema_migrations where version = $1)`, schemaVersion).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check migration status: %w", err)
	}
	if exists {
		fmt.Fprintf(out, "schema %s already applied\n", schemaVersion)
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	if _, err := tx.Exec(sqlinline.QSchema); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply schema %s: %w", schemaVersion, err)
	}
	if _, err := tx.Exec(`insert into schema_migrations (version) values ($1)`, schemaVersion); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to record migration version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	fmt.Fprintf(out, "schema %s applied\n", schemaVersion)
	return nil
}

func migrateDown(db *sql.DB, out io.Writer) error {
	var version string
	err := db.QueryRow(`select version from schema_migrations where version = $1`, schemaVersion).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		fmt.Fprintln(out, "no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get applied migration: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin rollback: %w", err)
	}
	if _, err := tx.Exec(sqlinline.QDropSchema); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("rollback %s: %w", version, err)
	}
	if _, err := tx.Exec(`delete from schema_migrations where version = $1`, version); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to remove migration record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rollback: %w", err)
	}
	fmt.Fprintf(out, "schema %s rolled back\n", version)
	return nil
}
