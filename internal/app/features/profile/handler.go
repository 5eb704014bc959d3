// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"errors"
	"net/http"
	"unicode/utf8"

	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	userstore "github.com/dalemusser/ukmhub/internal/app/store/users"
	"github.com/dalemusser/ukmhub/internal/app/system/authz"
	"github.com/dalemusser/ukmhub/internal/app/system/timeouts"
	"github.com/dalemusser/ukmhub/internal/app/system/viewdata"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// Handler serves the signed-in user's own profile: view, edit, and
// password change.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Users  *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Users:  userstore.New(db),
	}
}

func (h *Handler) loadSelf(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderUnauthorized(w, r, "/")
			return nil, false
		}
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "A database error occurred.", "/dashboard")
		return nil, false
	}
	return user, true
}

type profileData struct {
	viewdata.BaseVM
	User          *models.User
	HasPassword   bool
	Flash         string
	ProfileError  string
	PasswordError string
}

// ServeProfile handles GET /profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadSelf(w, r)
	if !ok {
		return
	}

	data := profileData{
		BaseVM:      viewdata.NewBaseVM(r, "My Profile", "/dashboard"),
		User:        user,
		HasPassword: user.PasswordHash != "",
	}
	switch {
	case query.Get(r, "saved") == "1":
		data.Flash = "Profile updated."
	case query.Get(r, "password") == "1":
		data.Flash = "Password changed."
	}
	templates.Render(w, r, "profile", data)
}

// HandleUpdate handles POST /profile.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadSelf(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse profile form failed", err, "Invalid form data.", "/profile")
		return
	}

	upd := userstore.ProfileUpdate{
		FullName:   r.FormValue("full_name"),
		Faculty:    r.FormValue("faculty"),
		Department: r.FormValue("department"),
	}
	if upd.FullName == "" {
		data := profileData{
			BaseVM:       viewdata.NewBaseVM(r, "My Profile", "/dashboard"),
			User:         user,
			HasPassword:  user.PasswordHash != "",
			ProfileError: "Full name is required.",
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "profile", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, user.ID, upd); err != nil {
		h.ErrLog.LogServerError(w, r, "profile update failed", err, "A database error occurred.", "/profile")
		return
	}
	http.Redirect(w, r, "/profile?saved=1", http.StatusSeeOther)
}

// HandlePassword handles POST /profile/password.
func (h *Handler) HandlePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadSelf(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse password form failed", err, "Invalid form data.", "/profile")
		return
	}

	current := r.FormValue("current_password")
	next := r.FormValue("new_password")
	confirm := r.FormValue("confirm_password")

	fail := func(msg string) {
		data := profileData{
			BaseVM:        viewdata.NewBaseVM(r, "My Profile", "/dashboard"),
			User:          user,
			HasPassword:   user.PasswordHash != "",
			PasswordError: msg,
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "profile", data)
	}

	// Accounts created through Google sign-in can set a first password
	// without supplying a current one.
	if user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
			fail("Current password is incorrect.")
			return
		}
	}
	if utf8.RuneCountInString(next) < minPasswordLength {
		fail("New password must be at least 8 characters.")
		return
	}
	if next != confirm {
		fail("New passwords do not match.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "password hash failed", err, "Unable to change password.", "/profile")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.SetPasswordHash(ctx, user.ID, string(hash)); err != nil {
		h.ErrLog.LogServerError(w, r, "password update failed", err, "A database error occurred.", "/profile")
		return
	}
	http.Redirect(w, r, "/profile?password=1", http.StatusSeeOther)
}
