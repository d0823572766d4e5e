package httpapi

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"climate-api/internal/utils"
)

const healthTimeout = 2 * time.Second

// storeHealth answers /healthz by pinging the store within healthTimeout.
type storeHealth struct {
	db *sql.DB
}

func (h storeHealth) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		slog.Error("store health check failed", "request_id", RequestIDFromContext(r.Context()), "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "store unreachable")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func registerHealthcheck(r chi.Router, db *sql.DB) {
	r.Method(http.MethodGet, "/healthz", storeHealth{db: db})
}
