// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/ukmhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the dashboard under /dashboard. All roles share the one
// entry point; the handler branches on the signed-in user's role.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeDashboard)
	return r
}
