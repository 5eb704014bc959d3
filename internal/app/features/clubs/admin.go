// internal/app/features/clubs/admin.go
package clubs

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	clubstore "github.com/dalemusser/ukmhub/internal/app/store/clubs"
	"github.com/dalemusser/ukmhub/internal/app/system/authz"
	"github.com/dalemusser/ukmhub/internal/app/system/timeouts"
	"github.com/dalemusser/ukmhub/internal/app/system/viewdata"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	nav "github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type adminListData struct {
	viewdata.BaseVM
	Clubs []models.Club
}

// ServeAdminList handles GET /admin/clubs.
func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	clubs, err := h.Clubs.List(ctx, false)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin list clubs failed", err, "A database error occurred.", "/dashboard")
		return
	}

	data := adminListData{
		BaseVM: viewdata.NewBaseVM(r, "Manage Clubs", "/dashboard"),
		Clubs:  clubs,
	}
	templates.Render(w, r, "clubs_admin_list", data)
}

type clubFormData struct {
	viewdata.BaseVM
	Club    models.Club
	IsNew   bool
	Error   string
	Updated bool
}

// ServeNew renders the "Add Club" form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := clubFormData{
		BaseVM: viewdata.NewBaseVM(r, "Add Club", "/admin/clubs"),
		Club:   models.Club{Status: models.ClubActive},
		IsNew:  true,
	}
	templates.Render(w, r, "clubs_form", data)
}

// HandleCreate processes the Add Club form POST.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, adminID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse club form failed", err, "Invalid form data.", "/admin/clubs")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	club, err := h.Clubs.Create(ctx, models.Club{
		Name:        r.FormValue("name"),
		Description: strings.TrimSpace(r.FormValue("description")),
		Status:      r.FormValue("status"),
		ImageURL:    strings.TrimSpace(r.FormValue("image_url")),
	})
	if err != nil {
		if errors.Is(err, clubstore.ErrDuplicateName) {
			h.reRenderForm(w, r, models.Club{Name: r.FormValue("name")}, true, "A club with this name already exists.")
			return
		}
		h.reRenderForm(w, r, models.Club{Name: r.FormValue("name")}, true, "Unable to create club: "+err.Error())
		return
	}

	h.AuditLog.ClubCreated(ctx, r, adminID, club.ID, club.Name)
	http.Redirect(w, r, "/admin/clubs/"+club.ID.Hex()+"/edit", http.StatusSeeOther)
}

// ServeEdit renders the club edit screen with officer assignment.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	club, ok := h.loadClub(w, r)
	if !ok {
		return
	}

	data := clubFormData{
		BaseVM:  viewdata.NewBaseVM(r, "Edit "+club.Name, "/admin/clubs"),
		Club:    *club,
		Updated: r.URL.Query().Get("updated") == "1",
	}
	templates.Render(w, r, "clubs_form", data)
}

// HandleEdit processes the club edit form POST.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	_, _, adminID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	club, ok := h.loadClub(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse club form failed", err, "Invalid form data.", "/admin/clubs")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Clubs.Update(ctx, club.ID, clubstore.Update{
		Name:        r.FormValue("name"),
		Description: strings.TrimSpace(r.FormValue("description")),
		Status:      r.FormValue("status"),
		ImageURL:    strings.TrimSpace(r.FormValue("image_url")),
	})
	if err != nil {
		if errors.Is(err, clubstore.ErrDuplicateName) {
			h.reRenderForm(w, r, *club, false, "A club with this name already exists.")
			return
		}
		h.reRenderForm(w, r, *club, false, "Unable to update club: "+err.Error())
		return
	}

	h.AuditLog.ClubUpdated(ctx, r, adminID, club.ID, "details")
	http.Redirect(w, r, "/admin/clubs/"+club.ID.Hex()+"/edit?updated=1", http.StatusSeeOther)
}

// HandleReconcile recomputes the cached member count from verified
// memberships. POST /admin/clubs/{id}/reconcile
func (h *Handler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	club, ok := h.loadClub(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	count, err := h.Engine.ReconcileMemberCount(ctx, club.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reconcile member count failed", err, "A database error occurred.", "/admin/clubs")
		return
	}

	h.Log.Info("member count reconciled",
		zap.String("club_id", club.ID.Hex()),
		zap.Int64("count", count),
	)
	http.Redirect(w, r, nav.ResolveBackURL(r, "/admin/clubs"), http.StatusSeeOther)
}

func (h *Handler) reRenderForm(w http.ResponseWriter, r *http.Request, club models.Club, isNew bool, msg string) {
	title := "Edit " + club.Name
	if isNew {
		title = "Add Club"
	}
	data := clubFormData{
		BaseVM: viewdata.NewBaseVM(r, title, "/admin/clubs"),
		Club:   club,
		IsNew:  isNew,
		Error:  msg,
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "clubs_form", data)
}
