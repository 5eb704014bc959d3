// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/ukmhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the self-service profile under /profile.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeProfile)
	r.Post("/", h.HandleUpdate)
	r.Post("/password", h.HandlePassword)
	return r
}
