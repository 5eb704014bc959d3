// internal/app/features/clubs/officers.go
package clubs

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	"github.com/dalemusser/ukmhub/internal/app/system/timeouts"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleAssignOfficer sets or clears an officer position on a club.
// POST /admin/clubs/{id}/officers with fields "position" and "email"
// (empty email clears the position).
//
// Assigning also promotes the user to the officer role; clearing demotes
// them back to student unless they still hold the position elsewhere.
func (h *Handler) HandleAssignOfficer(w http.ResponseWriter, r *http.Request) {
	club, ok := h.loadClub(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse officer form failed", err, "Invalid form data.", "/admin/clubs")
		return
	}

	position := strings.ToLower(strings.TrimSpace(r.FormValue("position")))
	if !models.IsOfficerRole(position) {
		h.ErrLog.LogBadRequest(w, r, "invalid officer position", nil, "Unknown officer position.", "/admin/clubs/"+club.ID.Hex()+"/edit")
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if email == "" {
		h.clearOfficer(ctx, w, r, club, position)
		return
	}

	user, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderForbidden(w, r, "No user with that email.", "/admin/clubs/"+club.ID.Hex()+"/edit")
			return
		}
		h.ErrLog.LogServerError(w, r, "lookup officer by email failed", err, "A database error occurred.", "/admin/clubs")
		return
	}
	if user.Role == models.RoleAdmin {
		uierrors.RenderForbidden(w, r, "Admins cannot hold club officer positions.", "/admin/clubs/"+club.ID.Hex()+"/edit")
		return
	}

	if err := h.Clubs.AssignOfficer(ctx, club.ID, position, &user.ID, user.FullName); err != nil {
		h.ErrLog.LogServerError(w, r, "assign officer failed", err, "A database error occurred.", "/admin/clubs")
		return
	}
	if err := h.Users.SetRole(ctx, user.ID, position); err != nil {
		h.ErrLog.LogServerError(w, r, "set officer role failed", err, "A database error occurred.", "/admin/clubs")
		return
	}

	h.Log.Info("officer assigned",
		zap.String("club_id", club.ID.Hex()),
		zap.String("position", position),
		zap.String("user_id", user.ID.Hex()),
	)
	http.Redirect(w, r, "/admin/clubs/"+club.ID.Hex()+"/edit?updated=1", http.StatusSeeOther)
}

func (h *Handler) clearOfficer(ctx context.Context, w http.ResponseWriter, r *http.Request, club *models.Club, position string) {
	prevID := officerID(club, position)
	if err := h.Clubs.AssignOfficer(ctx, club.ID, position, nil, ""); err != nil {
		h.ErrLog.LogServerError(w, r, "clear officer failed", err, "A database error occurred.", "/admin/clubs")
		return
	}

	if prevID != nil {
		// Demote to student only if no other club still references them in
		// this position.
		remaining, err := h.Clubs.ListByOfficer(ctx, position, *prevID)
		if err == nil && len(remaining) == 0 {
			if err := h.Users.SetRole(ctx, *prevID, models.RoleStudent); err != nil {
				h.Log.Warn("demote cleared officer failed", zap.Error(err), zap.String("user_id", prevID.Hex()))
			}
		}
	}

	http.Redirect(w, r, "/admin/clubs/"+club.ID.Hex()+"/edit?updated=1", http.StatusSeeOther)
}

func officerID(club *models.Club, position string) *primitive.ObjectID {
	switch position {
	case models.RoleChair:
		return club.ChairID
	case models.RoleSecretary:
		return club.SecretaryID
	case models.RoleSupervisor:
		return club.SupervisorID
	}
	return nil
}
