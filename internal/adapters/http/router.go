// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/errtrack/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all ingest routes registered.
// Middleware is applied globally in the order given.
func NewRouter(
	reportHandler *handlers.ReportHandler,
	eventsHandler *handlers.EventsHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Ingest and read-back routes.
	r.Route("/v1", func(r chi.Router) {
		r.Post("/errors", reportHandler.ReportError)
		r.Get("/errors", eventsHandler.ListEvents)
		r.Delete("/errors", eventsHandler.DeleteEvents)
		r.Get("/groupstats", eventsHandler.ListGroupStats)
	})

	return r
}
