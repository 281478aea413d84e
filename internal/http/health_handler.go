package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/auction-scheduler/internal/persistence"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	tx        persistence.TxManager
	responder responder
}

// NewHealthHandler wires the health endpoints. tx may be nil, in which case
// readiness only reports process liveness.
func NewHealthHandler(tx persistence.TxManager, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{tx: tx, responder: newResponder(logger)}
}

type healthResponse struct {
	Status string `json:"status"`
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.responder.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
}

// Ready handles GET /health/ready. Readiness runs an empty unit of work
// against the store to surface broken storage before traffic arrives.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.tx != nil {
		err := h.tx.RunInTransaction(r.Context(), func(context.Context, persistence.Repositories) error {
			return nil
		})
		if err != nil {
			h.responder.loggerFor(r.Context()).ErrorContext(r.Context(), "readiness probe failed", "error", err)
			h.responder.writeJSON(r.Context(), w, http.StatusServiceUnavailable, healthResponse{Status: "storage unavailable"})
			return
		}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
}
