package health

import (
	"context"
	"net/http"
	"time"

	"github.com/JaiCodes77/testing-CRUD/internal/httpx"
)

// RootMessage es la respuesta fija de GET /.
const RootMessage = "CRUD app started!"

// readyTimeout acota el ping a la DB en /ready.
const readyTimeout = 2 * time.Second

// Pinger es lo mínimo que necesita /ready del store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler encapsula endpoints de estado del proceso.
type Handler struct {
	db Pinger
}

// New crea un handler de health. db puede ser nil (readiness falla).
func New(db Pinger) *Handler {
	return &Handler{db: db}
}

// Root responde el mensaje de bienvenida.
func (handler *Handler) Root(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, http.StatusOK, map[string]string{"message": RootMessage})
}

// Health indica si el proceso está vivo.
// NO chequea base de datos. Eso va en /ready.
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready verifica que la DB responda dentro de readyTimeout.
func (handler *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if handler.db == nil {
		httpx.Fail(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := handler.db.Ping(ctx); err != nil {
		httpx.Fail(w, http.StatusServiceUnavailable, "database is not reachable")
		return
	}

	httpx.OK(w, http.StatusOK, map[string]string{"status": "ready"})
}
