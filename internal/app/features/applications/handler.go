// internal/app/features/applications/handler.go
package applications

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	clubstore "github.com/dalemusser/ukmhub/internal/app/store/clubs"
	membershipstore "github.com/dalemusser/ukmhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/ukmhub/internal/app/store/users"
	"github.com/dalemusser/ukmhub/internal/app/system/auditlog"
	"github.com/dalemusser/ukmhub/internal/app/system/authz"
	"github.com/dalemusser/ukmhub/internal/app/system/timeouts"
	"github.com/dalemusser/ukmhub/internal/app/system/viewdata"
	"github.com/dalemusser/ukmhub/internal/app/workflow"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the officer application queue: list by status, verify,
// and reject. All routes are scoped to the officer's resolved club.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Clubs    *clubstore.Store
	Engine   *workflow.Engine
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	clubs := clubstore.New(db)
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Clubs:    clubs,
		Engine:   workflow.NewEngine(userstore.New(db), clubs, membershipstore.New(db)),
	}
}

// officerClub returns the signed-in officer's club ID, rendering an error
// page when the officer has no club assignment.
func officerClub(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	clubID := authz.UserClubID(r)
	if clubID.IsZero() {
		uierrors.RenderForbidden(w, r, "You are not assigned to a club.", "/dashboard")
		return primitive.NilObjectID, false
	}
	return clubID, true
}

type queueData struct {
	viewdata.BaseVM
	Club         *models.Club
	Status       string
	Applications []models.Membership
	Flash        string
	Error        string
}

// ServeQueue handles GET /applications. The status filter defaults to
// pending; verified and rejected show the decision history.
func (h *Handler) ServeQueue(w http.ResponseWriter, r *http.Request) {
	clubID, ok := officerClub(w, r)
	if !ok {
		return
	}

	status := query.Get(r, "status")
	if status == "" {
		status = models.MembershipPending
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	club, err := h.Clubs.GetByID(ctx, clubID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load club for queue failed", err, "A database error occurred.", "/dashboard")
		return
	}

	apps, err := h.Engine.ListByClub(ctx, clubID, status)
	if err != nil {
		if errors.Is(err, workflow.ErrValidation) {
			uierrors.RenderForbidden(w, r, "Unknown status filter.", "/applications")
			return
		}
		h.ErrLog.LogServerError(w, r, "list applications failed", err, "A database error occurred.", "/dashboard")
		return
	}

	data := queueData{
		BaseVM:       viewdata.NewBaseVM(r, "Applications", "/dashboard"),
		Club:         club,
		Status:       status,
		Applications: apps,
	}
	switch {
	case query.Get(r, "verified") == "1":
		data.Flash = "Application verified. The member count has been updated."
	case query.Get(r, "rejected") == "1":
		data.Flash = "Application rejected."
	case query.Get(r, "error") == "already_decided":
		data.Error = "That application was already decided."
	case query.Get(r, "error") == "not_found":
		data.Error = "That application no longer exists."
	}
	templates.Render(w, r, "applications_queue", data)
}

// HandleVerify handles POST /applications/{id}/verify.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

// HandleReject handles POST /applications/{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, verify bool) {
	clubID, ok := officerClub(w, r)
	if !ok {
		return
	}

	membershipID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderForbidden(w, r, "Invalid application ID.", "/applications")
		return
	}

	role, _, actorID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var m *models.Membership
	if verify {
		m, err = h.Engine.Verify(ctx, clubID, membershipID)
	} else {
		m, err = h.Engine.Reject(ctx, clubID, membershipID)
	}
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotFound):
			http.Redirect(w, r, "/applications?error=not_found", http.StatusSeeOther)
		case errors.Is(err, workflow.ErrInvalidStateTransition):
			http.Redirect(w, r, "/applications?error=already_decided", http.StatusSeeOther)
		default:
			// Verify can fail after the transition when the counter update
			// errors; the membership is decided either way, so log loudly.
			if m != nil {
				h.Log.Error("member count update failed after verify",
					zap.String("membership_id", m.ID.Hex()),
					zap.String("club_id", clubID.Hex()),
					zap.Error(err))
				h.AuditLog.ApplicationVerified(ctx, r, actorID, m.ID, clubID, role)
				http.Redirect(w, r, "/applications?verified=1", http.StatusSeeOther)
				return
			}
			h.ErrLog.LogServerError(w, r, "application decision failed", err, "A database error occurred.", "/applications")
		}
		return
	}

	if verify {
		h.AuditLog.ApplicationVerified(ctx, r, actorID, m.ID, clubID, role)
		http.Redirect(w, r, "/applications?verified=1", http.StatusSeeOther)
		return
	}
	h.AuditLog.ApplicationRejected(ctx, r, actorID, m.ID, clubID, role)
	http.Redirect(w, r, "/applications?rejected=1", http.StatusSeeOther)
}
