package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	sqliteInsertItem  = `INSERT INTO items (name, description, price) VALUES (?, ?, ?)`
	sqliteUpdateItem  = `UPDATE items SET name = ?, description = ?, price = ? WHERE id = ?`
	sqliteSelectItem  = `SELECT id, name, description, price FROM items WHERE id = ?`
	sqliteSelectItems = `SELECT id, name, description, price FROM items ORDER BY id`
	sqliteDeleteItem  = `DELETE FROM items WHERE id = ?`
)

// sqlxQuerier es lo que comparten *sqlx.Conn y *sqlx.Tx.
type sqlxQuerier interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLiteGateway abre sesiones sobre una base SQLite vía sqlx.
type SQLiteGateway struct {
	database *sqlx.DB
}

// NewSQLiteGateway crea un gateway sobre la conexión.
func NewSQLiteGateway(database *sqlx.DB) *SQLiteGateway {
	return &SQLiteGateway{database: database}
}

// Acquire reserva una conexión dedicada para la sesión.
func (gateway *SQLiteGateway) Acquire(ctx context.Context) (Session, error) {
	conn, err := gateway.database.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &sqliteSession{conn: conn}, nil
}

// Ping verifica que la base responda.
func (gateway *SQLiteGateway) Ping(ctx context.Context) error {
	return gateway.database.PingContext(ctx)
}

// Close cierra la base.
func (gateway *SQLiteGateway) Close() {
	_ = gateway.database.Close()
}

type sqliteSession struct {
	conn   *sqlx.Conn
	tx     *sqlx.Tx
	closed bool
}

func (session *sqliteSession) querier() sqlxQuerier {
	if session.tx != nil {
		return session.tx
	}
	return session.conn
}

func (session *sqliteSession) begin(ctx context.Context) error {
	if session.tx != nil {
		return nil
	}
	tx, err := session.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	session.tx = tx
	return nil
}

func (session *sqliteSession) Add(ctx context.Context, item *Item) error {
	if err := session.begin(ctx); err != nil {
		return err
	}

	if item.ID == 0 {
		result, err := session.tx.ExecContext(ctx, sqliteInsertItem, item.Name, item.Description, item.Price)
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		item.ID = id
		return nil
	}

	result, err := session.tx.ExecContext(ctx, sqliteUpdateItem, item.Name, item.Description, item.Price, item.ID)
	if err != nil {
		return fmt.Errorf("update item %d: %w", item.ID, err)
	}
	return requireAffected(result)
}

func (session *sqliteSession) Get(ctx context.Context, id int64) (*Item, error) {
	var item Item
	if err := session.querier().GetContext(ctx, &item, sqliteSelectItem, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return &item, nil
}

func (session *sqliteSession) All(ctx context.Context) ([]Item, error) {
	items := []Item{}
	if err := session.querier().SelectContext(ctx, &items, sqliteSelectItems); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (session *sqliteSession) Delete(ctx context.Context, item *Item) error {
	if err := session.begin(ctx); err != nil {
		return err
	}

	result, err := session.tx.ExecContext(ctx, sqliteDeleteItem, item.ID)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", item.ID, err)
	}
	return requireAffected(result)
}

func (session *sqliteSession) Commit(ctx context.Context) error {
	if session.tx == nil {
		return nil
	}
	tx := session.tx
	session.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (session *sqliteSession) Refresh(ctx context.Context, item *Item) error {
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

func (session *sqliteSession) Close(ctx context.Context) error {
	if session.closed {
		return nil
	}
	session.closed = true

	var rollbackErr error
	if session.tx != nil {
		if err := session.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			rollbackErr = fmt.Errorf("rollback: %w", err)
		}
		session.tx = nil
	}
	if err := session.conn.Close(); err != nil && rollbackErr == nil {
		return fmt.Errorf("release connection: %w", err)
	}
	return rollbackErr
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrorNotFound
	}
	return nil
}
