// internal/app/features/documentation/routes.go
package docs

import (
	"github.com/dalemusser/ukmhub/internal/app/system/auth"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts documentation under /documentation, for club officers.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(models.OfficerRoles...))
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleUpload)
	r.Get("/{id}/file", h.ServeDownload)
	r.Post("/{id}/delete", h.HandleDelete)
	return r
}
