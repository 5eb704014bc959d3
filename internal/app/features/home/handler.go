// internal/app/features/home/handler.go
package home

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	agendastore "github.com/dalemusser/ukmhub/internal/app/store/agenda"
	clubstore "github.com/dalemusser/ukmhub/internal/app/store/clubs"
	"github.com/dalemusser/ukmhub/internal/app/system/timeouts"
	"github.com/dalemusser/ukmhub/internal/app/system/viewdata"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the public landing page.
type Handler struct {
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Clubs  *clubstore.Store
	Agenda *agendastore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		ErrLog: errLog,
		Clubs:  clubstore.New(db),
		Agenda: agendastore.New(db),
	}
}

type homeData struct {
	viewdata.BaseVM
	Clubs    []models.Club
	Upcoming []models.AgendaItem
}

// Serve handles GET /.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	clubs, err := h.Clubs.List(ctx, true)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list active clubs failed", err, "A database error occurred.", "/")
		return
	}

	upcoming, err := h.Agenda.ListUpcoming(ctx, startOfToday(), 5)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list upcoming agenda failed", err, "A database error occurred.", "/")
		return
	}

	data := homeData{
		BaseVM:   viewdata.NewBaseVM(r, "Welcome", "/"),
		Clubs:    clubs,
		Upcoming: upcoming,
	}
	templates.Render(w, r, "home", data)
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
