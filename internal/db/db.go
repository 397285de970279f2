package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// startupTimeout acota conexión + ping + creación de esquema.
const startupTimeout = 5 * time.Second

type poolPinger interface {
	Ping(ctx context.Context) error
	Close()
}

var (
	newPool  = pgxpool.New
	pingPool = func(ctx context.Context, pool poolPinger) error {
		return pool.Ping(ctx)
	}
	migratePool = func(ctx context.Context, pool *pgxpool.Pool) error {
		return EnsureSchema(ctx, pool)
	}
	closePool = func(pool poolPinger) {
		pool.Close()
	}
)

// OpenPostgres crea un pool de conexiones a PostgreSQL y se asegura de
// que la tabla items exista. Si algo falla el pool se cierra: la app no
// arranca "a medias".
func OpenPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	pool, err := newPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pingPool(ctx, pool); err != nil {
		closePool(pool)
		return nil, err
	}

	if err := migratePool(ctx, pool); err != nil {
		closePool(pool)
		return nil, err
	}

	return pool, nil
}
