package db

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // driver sqlite3
)

// sqliteBusyTimeout evita "database is locked" cuando dos requests
// escriben a la vez: SQLite espera en vez de fallar de inmediato.
const sqliteBusyTimeout = "_busy_timeout=5000"

// OpenSQLite abre (o crea) la base SQLite indicada por dsn,
// ej: "items.db" o "file:items.db?cache=shared", y crea la tabla items
// si no existe.
func OpenSQLite(ctx context.Context, dsn string) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	database, err := sqlx.ConnectContext(ctx, "sqlite3", withBusyTimeout(sharedMemoryDSN(dsn)))
	if err != nil {
		return nil, err
	}

	if err := EnsureSQLiteSchema(ctx, database); err != nil {
		_ = database.Close()
		return nil, err
	}

	return database, nil
}

// sharedMemoryDSN hace que una base en memoria sea una sola para todo el
// pool. Cada conexión a ":memory:" abre una base vacía distinta, y cada
// sesión usa su propia conexión. El nombre es único por llamada para que
// dos OpenSQLite no compartan datos.
func sharedMemoryDSN(dsn string) string {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:") {
		params := ""
		if index := strings.Index(dsn, "?"); index >= 0 && index < len(dsn)-1 {
			params = "&" + dsn[index+1:]
		}
		dsn = "file:items-" + uuid.NewString() + "?mode=memory" + params
	}
	if strings.Contains(dsn, "mode=memory") && !strings.Contains(dsn, "cache=shared") {
		dsn += "&cache=shared"
	}
	return dsn
}

func withBusyTimeout(dsn string) string {
	if strings.Contains(dsn, "_busy_timeout") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqliteBusyTimeout
	}
	return dsn + "?" + sqliteBusyTimeout
}
