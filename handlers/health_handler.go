package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ferreirogomes/propfolio/logging"
)

const pingTimeout = 2 * time.Second

// Pinger é qualquer dependência que sabe verificar a própria conexão.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responde se o store está acessível.
type HealthHandler struct {
	Store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{Store: store}
}

// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		logging.FromContext(r.Context()).Error("Store indisponível.", err, nil)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
