// internal/app/features/agenda/handler.go
package agenda

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	agendastore "github.com/dalemusser/ukmhub/internal/app/store/agenda"
	clubstore "github.com/dalemusser/ukmhub/internal/app/store/clubs"
	membershipstore "github.com/dalemusser/ukmhub/internal/app/store/memberships"
	"github.com/dalemusser/ukmhub/internal/app/system/agendastatus"
	"github.com/dalemusser/ukmhub/internal/app/system/authz"
	"github.com/dalemusser/ukmhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ukmhub/internal/app/system/timeouts"
	"github.com/dalemusser/ukmhub/internal/app/system/viewdata"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// dateFormat is what the <input type="date"> control submits.
const dateFormat = "2006-01-02"

// Handler serves the agenda screens: a classified list for members and
// officers, plus create, edit, and delete for the officer's club.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
	Agenda      *agendastore.Store
	Clubs       *clubstore.Store
	Memberships *membershipstore.Store
	Loc         *time.Location
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, loc *time.Location, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		DB:          db,
		Log:         logger,
		ErrLog:      errLog,
		Agenda:      agendastore.New(db),
		Clubs:       clubstore.New(db),
		Memberships: membershipstore.New(db),
		Loc:         loc,
	}
}

func (h *Handler) officerClub(w http.ResponseWriter, r *http.Request) (*models.Club, bool) {
	clubID := authz.UserClubID(r)
	if clubID.IsZero() {
		uierrors.RenderForbidden(w, r, "You are not assigned to a club.", "/dashboard")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	club, err := h.Clubs.GetByID(ctx, clubID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load officer club failed", err, "A database error occurred.", "/dashboard")
		return nil, false
	}
	return club, true
}

type agendaRow struct {
	models.AgendaItem
	Status string
}

type listData struct {
	viewdata.BaseVM
	Club  *models.Club
	Items []agendaRow
	Flash string
}

// ServeList handles GET /agenda. Officers get their club's management
// list; everyone else gets a read-only schedule of the clubs they are a
// verified member of.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if authz.IsOfficer(r) {
		h.serveOfficerList(w, r)
		return
	}
	h.serveStudentList(w, r)
}

func (h *Handler) serveOfficerList(w http.ResponseWriter, r *http.Request) {
	club, ok := h.officerClub(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Agenda.ListByClub(ctx, club.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "agenda list failed", err, "A database error occurred.", "/dashboard")
		return
	}

	now := time.Now().In(h.Loc)
	rows := make([]agendaRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, agendaRow{AgendaItem: item, Status: agendastatus.Classify(item.Date, now)})
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Agenda", "/dashboard"),
		Club:   club,
		Items:  rows,
	}
	switch {
	case query.Get(r, "created") == "1":
		data.Flash = "Agenda item created."
	case query.Get(r, "updated") == "1":
		data.Flash = "Agenda item updated."
	case query.Get(r, "deleted") == "1":
		data.Flash = "Agenda item deleted."
	}
	templates.Render(w, r, "agenda_list", data)
}

type studentListData struct {
	viewdata.BaseVM
	Items []agendaRow
}

func (h *Handler) serveStudentList(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.memberAgenda(ctx, userID, time.Now().In(h.Loc))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "student agenda list failed", err, "A database error occurred.", "/dashboard")
		return
	}

	data := studentListData{
		BaseVM: viewdata.NewBaseVM(r, "Agenda", "/dashboard"),
		Items:  rows,
	}
	templates.Render(w, r, "agenda_student", data)
}

// memberAgenda collects the agenda of every club the user is a verified
// member of, with the display status derived against now.
func (h *Handler) memberAgenda(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]agendaRow, error) {
	memberships, err := h.Memberships.ListByUser(ctx, userID, models.MembershipVerified)
	if err != nil {
		return nil, err
	}

	var rows []agendaRow
	seen := make(map[primitive.ObjectID]bool)
	for _, m := range memberships {
		if seen[m.ClubID] {
			continue
		}
		seen[m.ClubID] = true

		items, err := h.Agenda.ListByClub(ctx, m.ClubID)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			rows = append(rows, agendaRow{AgendaItem: item, Status: agendastatus.Classify(item.Date, now)})
		}
	}
	return rows, nil
}

type formData struct {
	viewdata.BaseVM
	Club   *models.Club
	Item   models.AgendaItem
	IsEdit bool
	Error  string
}

// ServeNew handles GET /agenda/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	club, ok := h.officerClub(w, r)
	if !ok {
		return
	}
	data := formData{
		BaseVM: viewdata.NewBaseVM(r, "New Agenda Item", "/agenda"),
		Club:   club,
	}
	templates.Render(w, r, "agenda_form", data)
}

func (h *Handler) parseItemForm(r *http.Request) (title, description, location string, date time.Time, err error) {
	title = r.FormValue("title")
	description = htmlsanitize.Text(r.FormValue("description"))
	location = htmlsanitize.Text(r.FormValue("location"))
	date, err = time.ParseInLocation(dateFormat, r.FormValue("date"), h.Loc)
	return
}

// HandleCreate handles POST /agenda/new.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	club, ok := h.officerClub(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse agenda form failed", err, "Invalid form data.", "/agenda")
		return
	}

	title, description, location, date, err := h.parseItemForm(r)

	fail := func(msg string, item models.AgendaItem) {
		data := formData{
			BaseVM: viewdata.NewBaseVM(r, "New Agenda Item", "/agenda"),
			Club:   club,
			Item:   item,
			Error:  msg,
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "agenda_form", data)
	}

	item := models.AgendaItem{
		ClubID:      club.ID,
		ClubName:    club.Name,
		Title:       title,
		Description: description,
		Date:        date,
		Location:    location,
	}
	if err != nil {
		fail("A valid date is required.", item)
		return
	}
	if title == "" {
		fail("Title is required.", item)
		return
	}

	_, _, userID, _ := authz.UserCtx(r)
	item.CreatedBy = userID

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Agenda.Insert(ctx, item); err != nil {
		h.ErrLog.LogServerError(w, r, "agenda insert failed", err, "A database error occurred.", "/agenda")
		return
	}
	http.Redirect(w, r, "/agenda?created=1", http.StatusSeeOther)
}

func (h *Handler) loadItem(w http.ResponseWriter, r *http.Request, clubID primitive.ObjectID) (*models.AgendaItem, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderForbidden(w, r, "Invalid agenda ID.", "/agenda")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	item, err := h.Agenda.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderForbidden(w, r, "Agenda item not found.", "/agenda")
			return nil, false
		}
		h.ErrLog.LogServerError(w, r, "load agenda item failed", err, "A database error occurred.", "/agenda")
		return nil, false
	}
	if item.ClubID != clubID {
		// Officers only touch their own club's agenda.
		uierrors.RenderForbidden(w, r, "Agenda item not found.", "/agenda")
		return nil, false
	}
	return item, true
}

// ServeEdit handles GET /agenda/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	club, ok := h.officerClub(w, r)
	if !ok {
		return
	}
	item, ok := h.loadItem(w, r, club.ID)
	if !ok {
		return
	}
	data := formData{
		BaseVM: viewdata.NewBaseVM(r, "Edit Agenda Item", "/agenda"),
		Club:   club,
		Item:   *item,
		IsEdit: true,
	}
	templates.Render(w, r, "agenda_form", data)
}

// HandleUpdate handles POST /agenda/{id}/edit.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	club, ok := h.officerClub(w, r)
	if !ok {
		return
	}
	item, ok := h.loadItem(w, r, club.ID)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse agenda form failed", err, "Invalid form data.", "/agenda")
		return
	}

	title, description, location, date, err := h.parseItemForm(r)

	fail := func(msg string) {
		item.Title = title
		item.Description = description
		item.Location = location
		data := formData{
			BaseVM: viewdata.NewBaseVM(r, "Edit Agenda Item", "/agenda"),
			Club:   club,
			Item:   *item,
			IsEdit: true,
			Error:  msg,
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "agenda_form", data)
	}

	if err != nil {
		fail("A valid date is required.")
		return
	}
	if title == "" {
		fail("Title is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Agenda.Update(ctx, club.ID, item.ID, title, description, date, location); err != nil {
		h.ErrLog.LogServerError(w, r, "agenda update failed", err, "A database error occurred.", "/agenda")
		return
	}
	http.Redirect(w, r, "/agenda?updated=1", http.StatusSeeOther)
}

// HandleDelete handles POST /agenda/{id}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	club, ok := h.officerClub(w, r)
	if !ok {
		return
	}
	item, ok := h.loadItem(w, r, club.ID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Agenda.Delete(ctx, club.ID, item.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "agenda delete failed", err, "A database error occurred.", "/agenda")
		return
	}
	http.Redirect(w, r, "/agenda?deleted=1", http.StatusSeeOther)
}
