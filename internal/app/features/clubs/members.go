// internal/app/features/clubs/members.go
package clubs

import (
	"context"
	"net/http"

	"github.com/dalemusser/ukmhub/internal/app/system/timeouts"
	"github.com/dalemusser/ukmhub/internal/app/system/viewdata"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type membersData struct {
	viewdata.BaseVM
	Club    models.Club
	Status  string
	Members []models.Membership
}

// ServeAdminMembers handles GET /admin/clubs/{id}/members: the member
// directory for one club, filtered by membership status.
func (h *Handler) ServeAdminMembers(w http.ResponseWriter, r *http.Request) {
	club, ok := h.loadClub(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	status := memberFilter(query.Get(r, "status"))
	members, err := h.clubMembers(ctx, club.ID, status)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin member list failed", err, "A database error occurred.", "/admin/clubs")
		return
	}

	data := membersData{
		BaseVM:  viewdata.NewBaseVM(r, club.Name+" Members", "/admin/clubs"),
		Club:    *club,
		Status:  status,
		Members: members,
	}
	templates.Render(w, r, "clubs_members", data)
}

// memberFilter maps the status query parameter to a membership status.
// The directory defaults to the verified roster; anything unrecognized
// falls back to that rather than erroring on a hand-edited URL.
func memberFilter(s string) string {
	if models.IsMembershipStatus(s) {
		return s
	}
	return models.MembershipVerified
}

func (h *Handler) clubMembers(ctx context.Context, clubID primitive.ObjectID, status string) ([]models.Membership, error) {
	return h.Engine.ListByClub(ctx, clubID, status)
}
