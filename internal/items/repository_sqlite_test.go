package items

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JaiCodes77/testing-CRUD/internal/db"
)

func newSQLiteGateway(t *testing.T) *SQLiteGateway {
	t.Helper()

	database, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "items.db"))
	require.NoError(t, err)

	gateway := NewSQLiteGateway(database)
	t.Cleanup(gateway.Close)
	return gateway
}

func acquire(t *testing.T, gateway *SQLiteGateway) Session {
	t.Helper()

	session, err := gateway.Acquire(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close(context.Background()) })
	return session
}

func TestSQLiteSession_AddCommitRefresh(t *testing.T) {
	ctx := context.Background()
	gateway := newSQLiteGateway(t)
	session := acquire(t, gateway)

	description := "High-end phone"
	item := Item{Name: "Phone X", Description: &description, Price: 999.99}

	require.NoError(t, session.Add(ctx, &item))
	require.Equal(t, int64(1), item.ID)
	require.NoError(t, session.Commit(ctx))
	require.NoError(t, session.Refresh(ctx, &item))

	require.Equal(t, "Phone X", item.Name)
	require.Equal(t, "High-end phone", *item.Description)
	require.Equal(t, 999.99, item.Price)

	other := acquire(t, gateway)
	found, err := other.Get(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, item, *found)
}

func TestSQLiteSession_CloseDiscardsUncommitted(t *testing.T) {
	ctx := context.Background()
	gateway := newSQLiteGateway(t)

	session, err := gateway.Acquire(ctx)
	require.NoError(t, err)
	require.NoError(t, session.Add(ctx, &Item{Name: "draft", Price: 1}))
	require.NoError(t, session.Close(ctx))
	require.NoError(t, session.Close(ctx))

	items, err := acquire(t, gateway).All(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestSQLiteSession_GetMissing(t *testing.T) {
	session := acquire(t, newSQLiteGateway(t))

	item, err := session.Get(context.Background(), 42)

	require.NoError(t, err)
	require.Nil(t, item)
}

func TestSQLiteSession_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	gateway := newSQLiteGateway(t)
	session := acquire(t, gateway)

	item := Item{Name: "Mouse", Price: 5}
	require.NoError(t, session.Add(ctx, &item))
	require.NoError(t, session.Commit(ctx))

	item.Name = "Wireless Mouse"
	require.NoError(t, session.Add(ctx, &item))
	require.NoError(t, session.Commit(ctx))

	found, err := session.Get(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, "Wireless Mouse", found.Name)
	require.Nil(t, found.Description)

	require.NoError(t, session.Delete(ctx, found))
	require.NoError(t, session.Commit(ctx))

	found, err = session.Get(ctx, item.ID)
	require.NoError(t, err)
	require.Nil(t, found)

	require.ErrorIs(t, session.Delete(ctx, &item), ErrorNotFound)
	require.ErrorIs(t, session.Add(ctx, &item), ErrorNotFound)
}

func TestSQLiteSession_AllOrderedByID(t *testing.T) {
	ctx := context.Background()
	gateway := newSQLiteGateway(t)
	session := acquire(t, gateway)

	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, session.Add(ctx, &Item{Name: name}))
	}
	require.NoError(t, session.Commit(ctx))

	items, err := session.All(ctx)

	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, item := range items {
		require.Equal(t, int64(i+1), item.ID)
	}
	require.Equal(t, "c", items[0].Name)
}

func TestSQLiteGateway_Ping(t *testing.T) {
	require.NoError(t, newSQLiteGateway(t).Ping(context.Background()))
}
