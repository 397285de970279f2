package items

import "context"

// Session es una unidad de trabajo sobre la tabla items.
// Las escrituras (Add, Delete) quedan pendientes hasta Commit; si la
// sesión se cierra sin Commit se descartan.
type Session interface {
	// Add deja pendiente un insert (ID == 0) o un update (ID != 0).
	// En los inserts el ID generado queda cargado en item.
	Add(ctx context.Context, item *Item) error
	// Get busca por clave primaria. Si no existe devuelve (nil, nil).
	Get(ctx context.Context, id int64) (*Item, error)
	// All devuelve todas las filas ordenadas por id.
	All(ctx context.Context) ([]Item, error)
	// Delete deja pendiente el borrado de item.
	Delete(ctx context.Context, item *Item) error
	// Commit aplica los cambios pendientes.
	Commit(ctx context.Context) error
	// Refresh recarga item desde la DB.
	Refresh(ctx context.Context, item *Item) error
	// Close descarta lo no commiteado y libera la conexión.
	Close(ctx context.Context) error
}

// Gateway abre sesiones contra el store. Cada request usa la suya.
type Gateway interface {
	Acquire(ctx context.Context) (Session, error)
}
