package health

import (
	"context"
	"net/http"
	"time"

	"github.com/Lelo88/request-admin/internal/httpx"
)

// readyTimeout acota el ping a la base para que /ready responda rápido.
const readyTimeout = 2 * time.Second

// Pinger es lo único que el handler necesita del pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler expone /health y /ready.
type Handler struct {
	database Pinger
}

// New crea un handler de health. database puede ser nil: /ready lo informa.
func New(database Pinger) *Handler {
	return &Handler{database: database}
}

// Health indica si el proceso está vivo. No toca la base.
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready indica si el servicio puede atender pedidos (base alcanzable).
func (handler *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if handler.database == nil {
		httpx.Fail(w, r, http.StatusServiceUnavailable, "not_ready", "database pool not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := handler.database.Ping(ctx); err != nil {
		httpx.Fail(w, r, http.StatusServiceUnavailable, "not_ready", "database is not reachable")
		return
	}

	httpx.OK(w, r, http.StatusOK, map[string]any{"status": "ready"})
}
