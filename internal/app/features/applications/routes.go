// internal/app/features/applications/routes.go
package applications

import (
	"github.com/dalemusser/ukmhub/internal/app/system/auth"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the application queue under /applications. Officers only;
// students see their own applications on the dashboard instead.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(models.OfficerRoles...))
	r.Get("/", h.ServeQueue)
	r.Post("/{id}/verify", h.HandleVerify)
	r.Post("/{id}/reject", h.HandleReject)
	return r
}
