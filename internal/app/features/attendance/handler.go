// internal/app/features/attendance/handler.go
package attendance

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	attendancestore "github.com/dalemusser/ukmhub/internal/app/store/attendance"
	clubstore "github.com/dalemusser/ukmhub/internal/app/store/clubs"
	membershipstore "github.com/dalemusser/ukmhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/ukmhub/internal/app/store/users"
	"github.com/dalemusser/ukmhub/internal/app/system/authz"
	"github.com/dalemusser/ukmhub/internal/app/system/timeouts"
	"github.com/dalemusser/ukmhub/internal/app/system/viewdata"
	"github.com/dalemusser/ukmhub/internal/app/workflow"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves daily attendance: the student submission form and
// history, plus the officer per-day recap for their club.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
	Clubs       *clubstore.Store
	Memberships *membershipstore.Store
	Attendance  *attendancestore.Store
	Guard       *workflow.AttendanceGuard
	Loc         *time.Location
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, loc *time.Location, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	clubs := clubstore.New(db)
	attendance := attendancestore.New(db)
	return &Handler{
		DB:          db,
		Log:         logger,
		ErrLog:      errLog,
		Clubs:       clubs,
		Memberships: membershipstore.New(db),
		Attendance:  attendance,
		Guard:       workflow.NewAttendanceGuard(attendance, userstore.New(db), clubs, loc),
		Loc:         loc,
	}
}

type clubOption struct {
	ID   primitive.ObjectID
	Name string
}

// verifiedClubs lists the clubs the student can submit attendance for.
func (h *Handler) verifiedClubs(ctx context.Context, userID primitive.ObjectID) ([]clubOption, error) {
	memberships, err := h.Memberships.ListByUser(ctx, userID, models.MembershipVerified)
	if err != nil {
		return nil, err
	}
	opts := make([]clubOption, 0, len(memberships))
	seen := make(map[primitive.ObjectID]bool)
	for _, m := range memberships {
		if seen[m.ClubID] {
			continue
		}
		seen[m.ClubID] = true
		club, err := h.Clubs.GetByID(ctx, m.ClubID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, err
		}
		opts = append(opts, clubOption{ID: club.ID, Name: club.Name})
	}
	return opts, nil
}

type submitData struct {
	viewdata.BaseVM
	Today   string
	Clubs   []clubOption
	History []models.AttendanceRecord
	Flash   string
	Error   string
}

// ServeForm handles GET /attendance.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	clubs, err := h.verifiedClubs(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list verified clubs failed", err, "A database error occurred.", "/dashboard")
		return
	}
	history, err := h.Guard.History(ctx, userID, 30)
	if err != nil {
		h.Log.Warn("attendance history failed", zap.Error(err))
	}

	data := submitData{
		BaseVM:  viewdata.NewBaseVM(r, "Daily Attendance", "/dashboard"),
		Today:   time.Now().In(h.Loc).Format(workflow.DayFormat),
		Clubs:   clubs,
		History: history,
	}
	switch {
	case query.Get(r, "submitted") == "1":
		data.Flash = "Attendance recorded for today."
	case query.Get(r, "error") == "duplicate":
		data.Error = "You already submitted attendance for today."
	}
	templates.Render(w, r, "attendance_form", data)
}

// HandleSubmit handles POST /attendance.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse attendance form failed", err, "Invalid form data.", "/attendance")
		return
	}

	clubID, err := primitive.ObjectIDFromHex(r.FormValue("club_id"))
	if err != nil {
		uierrors.RenderForbidden(w, r, "Choose a club to submit attendance for.", "/attendance")
		return
	}
	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	// Students may only submit for clubs they are verified members of.
	member, err := h.isVerifiedMember(ctx, userID, clubID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "membership check failed", err, "A database error occurred.", "/attendance")
		return
	}
	if !member {
		uierrors.RenderForbidden(w, r, "You are not a verified member of that club.", "/attendance")
		return
	}

	_, err = h.Guard.Submit(ctx, workflow.Submission{
		UserID: userID,
		ClubID: clubID,
		Status: r.FormValue("status"),
		Reason: r.FormValue("reason"),
	})
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrDuplicateSubmission):
			http.Redirect(w, r, "/attendance?error=duplicate", http.StatusSeeOther)
		case errors.Is(err, workflow.ErrValidation):
			h.serveFormWithError(w, r, userID, friendlyValidation(err))
		case errors.Is(err, workflow.ErrNotFound):
			uierrors.RenderForbidden(w, r, "Club not found.", "/attendance")
		default:
			h.ErrLog.LogServerError(w, r, "attendance submit failed", err, "A database error occurred.", "/attendance")
		}
		return
	}

	http.Redirect(w, r, "/attendance?submitted=1", http.StatusSeeOther)
}

func friendlyValidation(err error) string {
	if err == nil {
		return ""
	}
	// The guard wraps validation errors with a readable cause.
	return "Invalid submission: " + err.Error()
}

func (h *Handler) isVerifiedMember(ctx context.Context, userID, clubID primitive.ObjectID) (bool, error) {
	memberships, err := h.Memberships.ListByUser(ctx, userID, models.MembershipVerified)
	if err != nil {
		return false, err
	}
	for _, m := range memberships {
		if m.ClubID == clubID {
			return true, nil
		}
	}
	return false, nil
}

func (h *Handler) serveFormWithError(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID, msg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	clubs, err := h.verifiedClubs(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list verified clubs failed", err, "A database error occurred.", "/dashboard")
		return
	}
	history, _ := h.Guard.History(ctx, userID, 30)

	data := submitData{
		BaseVM:  viewdata.NewBaseVM(r, "Daily Attendance", "/dashboard"),
		Today:   time.Now().In(h.Loc).Format(workflow.DayFormat),
		Clubs:   clubs,
		History: history,
		Error:   msg,
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "attendance_form", data)
}

type recapData struct {
	viewdata.BaseVM
	Club        *models.Club
	Date        string
	Records     []models.AttendanceRecord
	Summary     attendancestore.Summary
	PresentRate float64
}

// ServeRecap handles GET /attendance/recap for officers. The date query
// parameter defaults to today.
func (h *Handler) ServeRecap(w http.ResponseWriter, r *http.Request) {
	clubID := authz.UserClubID(r)
	if clubID.IsZero() {
		uierrors.RenderForbidden(w, r, "You are not assigned to a club.", "/dashboard")
		return
	}

	date := query.Get(r, "date")
	if date == "" {
		date = time.Now().In(h.Loc).Format(workflow.DayFormat)
	} else if _, err := time.Parse(workflow.DayFormat, date); err != nil {
		uierrors.RenderForbidden(w, r, "Invalid date.", "/attendance/recap")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	club, err := h.Clubs.GetByID(ctx, clubID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load club for recap failed", err, "A database error occurred.", "/dashboard")
		return
	}
	records, err := h.Attendance.ListByClubAndDay(ctx, clubID, date)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "attendance recap failed", err, "A database error occurred.", "/dashboard")
		return
	}
	summary, err := h.Attendance.Summarize(ctx, clubID, date, date)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "attendance summary failed", err, "A database error occurred.", "/dashboard")
		return
	}

	data := recapData{
		BaseVM:      viewdata.NewBaseVM(r, "Attendance Recap", "/dashboard"),
		Club:        club,
		Date:        date,
		Records:     records,
		Summary:     summary,
		PresentRate: summary.PresentRate(),
	}
	templates.Render(w, r, "attendance_recap", data)
}
