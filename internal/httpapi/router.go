package httpapi

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter returns a router with request ids, access logging, panic
// recovery and /healthz installed. Features register their own routes on it.
func NewRouter(db *sql.DB) chi.Router {
	r := chi.NewRouter()
	r.Use(
		requestID,
		requestLogger,
		middleware.Recoverer,
	)
	registerHealthcheck(r, db)
	return r
}
