package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries de PostgreSQL. Las columnas siempre en el mismo orden que scanItem.
const (
	postgresInsertItem = `
		INSERT INTO items (name, description, price)
		VALUES ($1, $2, $3)
		RETURNING id;
	`
	postgresUpdateItem = `
		UPDATE items
		SET name = $2, description = $3, price = $4
		WHERE id = $1;
	`
	postgresSelectItem = `
		SELECT id, name, description, price
		FROM items
		WHERE id = $1;
	`
	postgresSelectItems = `
		SELECT id, name, description, price
		FROM items
		ORDER BY id;
	`
	postgresDeleteItem = `
		DELETE FROM items
		WHERE id = $1;
	`
)

// pgxQuerier es lo que comparten una conexión del pool y una transacción.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgxConn es la parte de *pgxpool.Conn que usa la sesión.
// Permite testear sin DB real.
type pgxConn interface {
	pgxQuerier
	Begin(ctx context.Context) (pgx.Tx, error)
	Release()
}

// PostgresGateway abre sesiones sobre un pool de pgx.
type PostgresGateway struct {
	pool    *pgxpool.Pool
	acquire func(ctx context.Context) (pgxConn, error)
}

// NewPostgresGateway crea un gateway sobre el pool.
func NewPostgresGateway(pool *pgxpool.Pool) *PostgresGateway {
	return &PostgresGateway{
		pool: pool,
		acquire: func(ctx context.Context) (pgxConn, error) {
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return nil, err
			}
			return conn, nil
		},
	}
}

// Acquire toma una conexión del pool para una sesión.
func (gateway *PostgresGateway) Acquire(ctx context.Context) (Session, error) {
	conn, err := gateway.acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &postgresSession{conn: conn}, nil
}

// Ping verifica que la DB responda.
func (gateway *PostgresGateway) Ping(ctx context.Context) error {
	return gateway.pool.Ping(ctx)
}

// Close cierra el pool.
func (gateway *PostgresGateway) Close() {
	gateway.pool.Close()
}

// postgresSession mantiene una conexión y, desde la primera escritura,
// una transacción abierta hasta Commit o Close.
type postgresSession struct {
	conn   pgxConn
	tx     pgx.Tx
	closed bool
}

func (session *postgresSession) querier() pgxQuerier {
	if session.tx != nil {
		return session.tx
	}
	return session.conn
}

func (session *postgresSession) begin(ctx context.Context) error {
	if session.tx != nil {
		return nil
	}
	tx, err := session.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	session.tx = tx
	return nil
}

func (session *postgresSession) Add(ctx context.Context, item *Item) error {
	if err := session.begin(ctx); err != nil {
		return err
	}

	if item.ID == 0 {
		if err := session.tx.QueryRow(ctx, postgresInsertItem, item.Name, item.Description, item.Price).Scan(&item.ID); err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		return nil
	}

	tag, err := session.tx.Exec(ctx, postgresUpdateItem, item.ID, item.Name, item.Description, item.Price)
	if err != nil {
		return fmt.Errorf("update item %d: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (session *postgresSession) Get(ctx context.Context, id int64) (*Item, error) {
	var item Item
	err := session.querier().QueryRow(ctx, postgresSelectItem, id).
		Scan(&item.ID, &item.Name, &item.Description, &item.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return &item, nil
}

func (session *postgresSession) All(ctx context.Context) ([]Item, error) {
	rows, err := session.querier().Query(ctx, postgresSelectItems)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (session *postgresSession) Delete(ctx context.Context, item *Item) error {
	if err := session.begin(ctx); err != nil {
		return err
	}

	tag, err := session.tx.Exec(ctx, postgresDeleteItem, item.ID)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (session *postgresSession) Commit(ctx context.Context) error {
	if session.tx == nil {
		return nil
	}
	tx := session.tx
	session.tx = nil
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (session *postgresSession) Refresh(ctx context.Context, item *Item) error {
	fresh, err := session.Get(ctx, item.ID)
	if err != nil {
		return err
	}
	if fresh == nil {
		return ErrorNotFound
	}
	*item = *fresh
	return nil
}

// Close hace rollback de lo pendiente y devuelve la conexión al pool.
// Es idempotente.
func (session *postgresSession) Close(ctx context.Context) error {
	if session.closed {
		return nil
	}
	session.closed = true
	defer session.conn.Release()

	if session.tx == nil {
		return nil
	}
	tx := session.tx
	session.tx = nil
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}
