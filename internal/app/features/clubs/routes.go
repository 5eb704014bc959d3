// internal/app/features/clubs/routes.go
package clubs

import (
	"github.com/dalemusser/ukmhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the public club directory.
// Typically: r.Mount("/clubs", clubs.Routes(handler, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeDetail)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/{id}/apply", h.HandleApply)
	})

	return r
}

// AdminRoutes mounts the club management screens.
// Typically: r.Mount("/admin/clubs", clubs.AdminRoutes(handler, sm))
func AdminRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole("admin"))

	r.Get("/", h.ServeAdminList)
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}/edit", h.HandleEdit)
	r.Get("/{id}/members", h.ServeAdminMembers)
	r.Post("/{id}/officers", h.HandleAssignOfficer)
	r.Post("/{id}/reconcile", h.HandleReconcile)

	return r
}
