// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	agendastore "github.com/dalemusser/ukmhub/internal/app/store/agenda"
	attendancestore "github.com/dalemusser/ukmhub/internal/app/store/attendance"
	"github.com/dalemusser/ukmhub/internal/app/store/audit"
	clubstore "github.com/dalemusser/ukmhub/internal/app/store/clubs"
	membershipstore "github.com/dalemusser/ukmhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/ukmhub/internal/app/store/users"
	"github.com/dalemusser/ukmhub/internal/app/system/agendastatus"
	"github.com/dalemusser/ukmhub/internal/app/system/authz"
	"github.com/dalemusser/ukmhub/internal/app/system/timeouts"
	"github.com/dalemusser/ukmhub/internal/app/system/viewdata"
	"github.com/dalemusser/ukmhub/internal/app/workflow"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the role-routed dashboard: admins see a site overview,
// officers see their club's workqueue, students see their own standing.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
	Clubs       *clubstore.Store
	Users       *userstore.Store
	Memberships *membershipstore.Store
	Agenda      *agendastore.Store
	Attendance  *attendancestore.Store
	Audit       *audit.Store
	Engine      *workflow.Engine
	Resolver    *workflow.Resolver
	Guard       *workflow.AttendanceGuard
	Loc         *time.Location
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, loc *time.Location, logger *zap.Logger) *Handler {
	clubs := clubstore.New(db)
	users := userstore.New(db)
	memberships := membershipstore.New(db)
	attendance := attendancestore.New(db)
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		DB:          db,
		Log:         logger,
		ErrLog:      errLog,
		Clubs:       clubs,
		Users:       users,
		Memberships: memberships,
		Agenda:      agendastore.New(db),
		Attendance:  attendance,
		Audit:       audit.New(db),
		Engine:      workflow.NewEngine(users, clubs, memberships),
		Resolver:    workflow.NewResolver(users, clubs, memberships),
		Guard:       workflow.NewAttendanceGuard(attendance, users, clubs, loc),
		Loc:         loc,
	}
}

// ServeDashboard handles GET /dashboard. Routing is by role; the signed-in
// guarantee comes from RequireSignedIn on the route.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/")
		return
	}

	switch role {
	case models.RoleAdmin:
		h.serveAdmin(w, r)
	case models.RoleChair, models.RoleSecretary, models.RoleSupervisor:
		h.serveOfficer(w, r)
	default:
		h.serveStudent(w, r)
	}
}

type adminDashData struct {
	viewdata.BaseVM
	Clubs        []models.Club
	TotalMembers int64
	PendingCount int64
	RecentEvents []models.AuditEvent
}

func (h *Handler) serveAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	clubs, err := h.Clubs.List(ctx, false)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin dashboard club list failed", err, "A database error occurred.", "/")
		return
	}

	var total int64
	for _, c := range clubs {
		total += c.MemberCount
	}

	pending, err := h.Memberships.CountByStatus(ctx, models.MembershipPending)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "pending count failed", err, "A database error occurred.", "/")
		return
	}

	events, err := h.Audit.ListRecent(ctx, 15)
	if err != nil {
		h.Log.Warn("admin dashboard audit list failed", zap.Error(err))
	}

	data := adminDashData{
		BaseVM:       viewdata.NewBaseVM(r, "Admin Dashboard", "/"),
		Clubs:        clubs,
		TotalMembers: total,
		PendingCount: pending,
		RecentEvents: events,
	}
	templates.Render(w, r, "dashboard_admin", data)
}

type agendaRow struct {
	models.AgendaItem
	Status string
}

type officerDashData struct {
	viewdata.BaseVM
	Club          *models.Club
	Ambiguous     bool
	PendingCount  int64
	VerifiedCount int64
	Agenda        []agendaRow
	Summary       attendancestore.Summary
	PresentRate   float64
}

func (h *Handler) serveOfficer(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	aff, err := h.Resolver.Resolve(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "officer affiliation resolve failed", err, "A database error occurred.", "/")
		return
	}

	data := officerDashData{
		BaseVM:    viewdata.NewBaseVM(r, "Club Dashboard", "/"),
		Club:      aff.Club,
		Ambiguous: aff.Ambiguous,
	}
	if aff.Club == nil {
		// Officer without a club assignment yet; render the empty state.
		templates.Render(w, r, "dashboard_officer", data)
		return
	}

	if data.PendingCount, err = h.Engine.CountByClub(ctx, aff.Club.ID, models.MembershipPending); err != nil {
		h.ErrLog.LogServerError(w, r, "pending count failed", err, "A database error occurred.", "/")
		return
	}
	if data.VerifiedCount, err = h.Engine.CountByClub(ctx, aff.Club.ID, models.MembershipVerified); err != nil {
		h.ErrLog.LogServerError(w, r, "verified count failed", err, "A database error occurred.", "/")
		return
	}

	items, err := h.Agenda.ListByClub(ctx, aff.Club.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "agenda list failed", err, "A database error occurred.", "/")
		return
	}
	now := time.Now().In(h.Loc)
	for _, item := range items {
		data.Agenda = append(data.Agenda, agendaRow{
			AgendaItem: item,
			Status:     agendastatus.Classify(item.Date, now),
		})
	}

	// Attendance summary over the trailing 30 days.
	to := now.Format(workflow.DayFormat)
	from := now.AddDate(0, 0, -30).Format(workflow.DayFormat)
	summary, err := h.Attendance.Summarize(ctx, aff.Club.ID, from, to)
	if err != nil {
		h.Log.Warn("attendance summary failed", zap.Error(err))
	} else {
		data.Summary = summary
		data.PresentRate = summary.PresentRate()
	}

	templates.Render(w, r, "dashboard_officer", data)
}

type membershipRow struct {
	models.Membership
	ClubName string
}

type studentDashData struct {
	viewdata.BaseVM
	Memberships []membershipRow
	Attendance  []models.AttendanceRecord
}

func (h *Handler) serveStudent(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	memberships, err := h.Engine.ListByUser(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "student memberships failed", err, "A database error occurred.", "/")
		return
	}

	rows := make([]membershipRow, 0, len(memberships))
	for _, m := range memberships {
		row := membershipRow{Membership: m}
		if club, err := h.Clubs.GetByID(ctx, m.ClubID); err == nil {
			row.ClubName = club.Name
		}
		rows = append(rows, row)
	}

	history, err := h.Guard.History(ctx, userID, 20)
	if err != nil {
		h.Log.Warn("attendance history failed", zap.Error(err))
	}

	data := studentDashData{
		BaseVM:      viewdata.NewBaseVM(r, "My Dashboard", "/"),
		Memberships: rows,
		Attendance:  history,
	}
	templates.Render(w, r, "dashboard_student", data)
}
