// internal/app/features/agenda/routes.go
package agenda

import (
	"github.com/dalemusser/ukmhub/internal/app/system/auth"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the agenda under /agenda. The list is for every signed-in
// user (students see their club's schedule); mutations are officer-only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeList)

	r.Group(func(or chi.Router) {
		or.Use(sm.RequireRole(models.OfficerRoles...))
		or.Get("/new", h.ServeNew)
		or.Post("/new", h.HandleCreate)
		or.Get("/{id}/edit", h.ServeEdit)
		or.Post("/{id}/edit", h.HandleUpdate)
		or.Post("/{id}/delete", h.HandleDelete)
	})
	return r
}
