// internal/app/features/clubs/detail.go
package clubs

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	"github.com/dalemusser/ukmhub/internal/app/system/authz"
	"github.com/dalemusser/ukmhub/internal/app/system/timeouts"
	"github.com/dalemusser/ukmhub/internal/app/system/viewdata"
	"github.com/dalemusser/ukmhub/internal/app/workflow"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	nav "github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type detailData struct {
	viewdata.BaseVM
	Club     models.Club
	CanApply bool
	Applied  bool
	Error    string
}

func (h *Handler) loadClub(w http.ResponseWriter, r *http.Request) (*models.Club, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderForbidden(w, r, "Invalid club ID.", "/clubs")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	club, err := h.Clubs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderForbidden(w, r, "Club not found.", "/clubs")
			return nil, false
		}
		h.ErrLog.LogServerError(w, r, "load club failed", err, "A database error occurred.", "/clubs")
		return nil, false
	}
	return club, true
}

// ServeDetail handles GET /clubs/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	club, ok := h.loadClub(w, r)
	if !ok {
		return
	}

	data := detailData{
		BaseVM:   viewdata.NewBaseVM(r, club.Name, "/clubs"),
		Club:     *club,
		CanApply: authz.IsStudent(r) && club.Status == models.ClubActive,
		Applied:  r.URL.Query().Get("applied") == "1",
	}
	templates.Render(w, r, "clubs_detail", data)
}

// HandleApply processes a student's application form.
// POST /clubs/{id}/apply
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if !authz.IsStudent(r) {
		uierrors.RenderForbidden(w, r, "Only students can apply to clubs.", nav.ResolveBackURL(r, "/clubs"))
		return
	}
	club, ok := h.loadClub(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse apply form failed", err, "Invalid form data.", "/clubs/"+club.ID.Hex())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Engine.Apply(ctx, workflow.Application{
		UserID:     userID,
		ClubID:     club.ID,
		FullName:   r.FormValue("full_name"),
		Email:      r.FormValue("email"),
		Faculty:    r.FormValue("faculty"),
		Department: r.FormValue("department"),
		Reason:     r.FormValue("reason"),
	})
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrValidation):
			data := detailData{
				BaseVM:   viewdata.NewBaseVM(r, club.Name, "/clubs"),
				Club:     *club,
				CanApply: true,
				Error:    userMessage(err),
			}
			w.WriteHeader(http.StatusUnprocessableEntity)
			templates.Render(w, r, "clubs_detail", data)
		case errors.Is(err, workflow.ErrNotFound):
			uierrors.RenderForbidden(w, r, "Club not found.", "/clubs")
		default:
			h.ErrLog.LogServerError(w, r, "apply failed", err, "A database error occurred.", "/clubs/"+club.ID.Hex())
		}
		return
	}

	h.Log.Info("club application submitted",
		zap.String("club_id", club.ID.Hex()),
		zap.String("membership_id", m.ID.Hex()),
	)
	h.AuditLog.ApplicationSubmitted(ctx, r, userID, m.ID, club.ID)

	http.Redirect(w, r, "/clubs/"+club.ID.Hex()+"?applied=1", http.StatusSeeOther)
}

// userMessage strips the sentinel prefix wrapping from a workflow error so
// the page shows just the human-readable part.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
