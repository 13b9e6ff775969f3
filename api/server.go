/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /api/employees/*      Directory, tenure, advancement preview
  /api/departments      Department list
  /api/advancements/*   Pay advancement requests and history
  /api/dashboard        Landing page summary
  /api/reports/*        Sorted employee and department reports
  /api/calculator       Standalone tenure calculation
  /api/tenure/*         Recalculation runs
  /api/admin/*          Admin operations
  /                     Endpoint index

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultAllowedOrigins are used when NewRouter gets no origins.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/tenure", h.GetTenure)
			r.Get("/{id}/advancement-preview", h.PreviewAdvancement)
		})

		r.Get("/departments", h.ListDepartments)

		r.Route("/advancements", func(r chi.Router) {
			r.Get("/", h.ListAdvancements)
			r.Post("/", h.SubmitAdvancement)
			r.Get("/summary", h.AdvancementSummary)
		})

		r.Get("/dashboard", h.GetDashboard)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/employees", h.EmployeeReport)
			r.Get("/departments", h.DepartmentReport)
		})

		r.Get("/calculator", h.Calculate)

		r.Route("/tenure", func(r chi.Router) {
			r.Post("/recalculate", h.Recalculate)
			r.Get("/runs", h.ListRecalculationRuns)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Tenure Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Tenure Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/dashboard">/api/dashboard</a> - Dashboard</li>
<li><a href="/api/employees">/api/employees</a> - Employee directory</li>
<li><a href="/api/advancements">/api/advancements</a> - Pay advancement history</li>
<li><a href="/api/reports/employees">/api/reports/employees</a> - Employee report</li>
<li><a href="/api/reports/departments">/api/reports/departments</a> - Department report</li>
<li><a href="/api/tenure/runs">/api/tenure/runs</a> - Recalculation runs</li>
</ul>
</body>
</html>`))
	})

	return r
}
