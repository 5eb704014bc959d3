// internal/app/features/attendance/routes.go
package attendance

import (
	"github.com/dalemusser/ukmhub/internal/app/system/auth"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts attendance under /attendance. Students submit and view
// their own history; the recap is officer-only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireRole(models.RoleStudent))
		r.Get("/", h.ServeForm)
		r.Post("/", h.HandleSubmit)
	})

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireRole(models.OfficerRoles...))
		r.Get("/recap", h.ServeRecap)
	})

	return r
}
