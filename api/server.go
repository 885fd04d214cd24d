/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and routes.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. httplog:    Structured request logging (slog, ECS schema)
  4. CORS:       Cross-origin requests for the admin frontend

SECURITY NOTE:
  Authentication/authorization is handled by the surrounding timesheet
  platform; this service is deployed behind it and exposes no auth of its
  own.

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(true)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "trip-engine"),
	)

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/employees/{id}", func(r chi.Router) {
			r.Put("/", h.UpsertEmployee)
			r.Get("/trip-summary", h.GetTripSummary)
			r.Put("/work-days", h.UpsertWorkDay)
			r.Put("/absences", h.UpsertAbsence)
			r.Put("/settings", h.PutEmployeeSettings)
			r.Route("/conversion-ledger", func(r chi.Router) {
				r.Get("/", h.GetLedger)
				r.Post("/manual-delta", h.ApplyManualDelta)
				r.Get("/corrections", h.GetCorrections)
			})
		})

		r.Put("/companies/{id}/settings", h.PutCompanySettings)
		r.Post("/trip-summaries/compute", h.ComputeBatch)
	})

	return r
}
