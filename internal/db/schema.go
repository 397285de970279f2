package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// Esquema de la tabla items. IF NOT EXISTS lo hace seguro de correr en
// cada arranque.
const (
	postgresSchema = `
		CREATE TABLE IF NOT EXISTS items (
			id          BIGSERIAL PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NULL,
			price       DOUBLE PRECISION NOT NULL
		);
	`
	sqliteSchema = `
		CREATE TABLE IF NOT EXISTS items (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			description TEXT NULL,
			price       REAL NOT NULL
		);
	`
)

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// EnsureSchema crea la tabla items en PostgreSQL si no existe.
func EnsureSchema(ctx context.Context, database execer) error {
	if _, err := database.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create items table: %w", err)
	}
	return nil
}

// EnsureSQLiteSchema crea la tabla items en SQLite si no existe.
func EnsureSQLiteSchema(ctx context.Context, database *sqlx.DB) error {
	if _, err := database.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create items table: %w", err)
	}
	return nil
}
