package ipc

import (
	"context"
	"net/http"
)

// Server wraps an HTTP server with engine-specific routing.
type Server struct {
	httpServer *http.Server
}

// NewServer creates a Server that binds to the given address.
func NewServer(h *Handler, listenAddr string) *Server {
	mux := http.NewServeMux()

	// Health endpoint.
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Bulk change lifecycle.
	mux.HandleFunc("POST /api/v1/bulk-changes", h.CreateBulkChange)
	mux.HandleFunc("GET /api/v1/bulk-changes", h.ListBulkChanges)
	mux.HandleFunc("GET /api/v1/bulk-changes/{id}", h.GetBulkChange)
	mux.HandleFunc("PATCH /api/v1/bulk-changes/{id}", h.UpdateBulkChange)
	mux.HandleFunc("DELETE /api/v1/bulk-changes/{id}", h.DeleteBulkChange)

	// Actions.
	mux.HandleFunc("POST /api/v1/bulk-changes/{id}/actions", h.AddAction)
	mux.HandleFunc("PUT /api/v1/bulk-changes/{id}/actions/{actionID}", h.UpdateAction)
	mux.HandleFunc("DELETE /api/v1/bulk-changes/{id}/actions/{actionID}", h.RemoveAction)

	// Wizard navigation.
	mux.HandleFunc("POST /api/v1/bulk-changes/{id}/advance", h.AdvanceStep)
	mux.HandleFunc("POST /api/v1/bulk-changes/{id}/goto", h.GoToStep)

	// Schedule and approvals.
	mux.HandleFunc("POST /api/v1/bulk-changes/{id}/effective-date", h.SetEffectiveDate)
	mux.HandleFunc("POST /api/v1/bulk-changes/{id}/route", h.RouteForApproval)
	mux.HandleFunc("POST /api/v1/bulk-changes/{id}/decisions", h.RecordDecision)
	mux.HandleFunc("POST /api/v1/bulk-changes/{id}/mark-overdue", h.MarkOverdue)
	mux.HandleFunc("POST /api/v1/bulk-changes/{id}/commit", h.Commit)

	// Read models.
	mux.HandleFunc("GET /api/v1/bulk-changes/{id}/validation", h.ValidationSummary)
	mux.HandleFunc("GET /api/v1/bulk-changes/{id}/events", h.ListEvents)
	mux.HandleFunc("GET /api/v1/bulk-changes/{id}/audit", h.ListAudit)
	mux.HandleFunc("GET /api/v1/bulk-changes/{id}/impact", h.Impact)
	mux.HandleFunc("GET /api/v1/bulk-changes/{id}/monitoring", h.Monitoring)

	// Directory and catalog.
	mux.HandleFunc("GET /api/v1/employees", h.ListEmployees)
	mux.HandleFunc("GET /api/v1/employees/{id}", h.GetEmployee)
	mux.HandleFunc("POST /api/v1/employees/resolve", h.ResolveEmployees)
	mux.HandleFunc("GET /api/v1/catalog/categories", h.ListCategories)
	mux.HandleFunc("GET /api/v1/catalog/templates", h.ListTemplates)

	srv := &http.Server{
		Addr:    listenAddr,
		Handler: corsMiddleware(mux),
	}

	return &Server{
		httpServer: srv,
	}
}

// Start begins listening for HTTP connections. Blocks until the server stops.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// corsMiddleware adds CORS headers for local frontend access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
