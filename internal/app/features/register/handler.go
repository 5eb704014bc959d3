// internal/app/features/register/handler.go
package register

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	clubstore "github.com/dalemusser/ukmhub/internal/app/store/clubs"
	membershipstore "github.com/dalemusser/ukmhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/ukmhub/internal/app/store/users"
	"github.com/dalemusser/ukmhub/internal/app/system/auth"
	"github.com/dalemusser/ukmhub/internal/app/system/normalize"
	"github.com/dalemusser/ukmhub/internal/app/system/timeouts"
	"github.com/dalemusser/ukmhub/internal/app/system/viewdata"
	"github.com/dalemusser/ukmhub/internal/app/workflow"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler serves student self-registration. Registering can also submit a
// first club application in the same step.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Sessions *auth.SessionManager
	Users    *userstore.Store
	Clubs    *clubstore.Store
	Engine   *workflow.Engine
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	users := userstore.New(db)
	clubs := clubstore.New(db)
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Sessions: sm,
		Users:    users,
		Clubs:    clubs,
		Engine:   workflow.NewEngine(users, clubs, membershipstore.New(db)),
	}
}

type registerData struct {
	viewdata.BaseVM
	Clubs      []models.Club
	FullName   string
	Email      string
	Faculty    string
	Department string
	ClubHex    string
	Reason     string
	Error      string
}

// ServeForm handles GET /register.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	clubs, err := h.Clubs.List(ctx, true)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list clubs for register failed", err, "A database error occurred.", "/")
		return
	}

	data := registerData{
		BaseVM: viewdata.NewBaseVM(r, "Register", "/"),
		Clubs:  clubs,
	}
	templates.Render(w, r, "register", data)
}

// HandleSubmit handles POST /register: creates the student account, signs
// them in, and submits a club application when a club was chosen.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse register form failed", err, "Invalid form data.", "/register")
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	faculty := strings.TrimSpace(r.FormValue("faculty"))
	department := strings.TrimSpace(r.FormValue("department"))
	clubHex := strings.TrimSpace(r.FormValue("club"))
	reason := strings.TrimSpace(r.FormValue("reason"))

	fail := func(msg string) {
		h.reRender(w, r, registerData{
			FullName: fullName, Email: email, Faculty: faculty,
			Department: department, ClubHex: clubHex, Reason: reason,
			Error: msg,
		})
	}

	if fullName == "" {
		fail("Full name is required.")
		return
	}
	if !normalize.EmailValid(normalize.Email(email)) {
		fail("A valid email is required.")
		return
	}
	if len(password) < 8 {
		fail("Password must be at least 8 characters.")
		return
	}
	if clubHex != "" {
		if faculty == "" || department == "" {
			fail("Faculty and department are required to apply to a club.")
			return
		}
		if reason == "" {
			fail("Tell the club why you want to join.")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Registration failed.", "/register")
		return
	}

	user, err := h.Users.Create(ctx, models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		AuthMethod:   "password",
		Role:         models.RoleStudent,
		Faculty:      faculty,
		Department:   department,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			fail("An account with this email already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "create user failed", err, "Registration failed.", "/register")
		return
	}

	redirect := "/dashboard"
	if clubHex != "" {
		clubID, err := primitive.ObjectIDFromHex(clubHex)
		if err != nil {
			fail("Invalid club selection.")
			return
		}
		if _, err := h.Engine.Apply(ctx, workflow.Application{
			UserID:     user.ID,
			ClubID:     clubID,
			FullName:   fullName,
			Email:      email,
			Faculty:    faculty,
			Department: department,
			Reason:     reason,
		}); err != nil {
			// Account exists; the application can be retried from the club
			// page, so log and continue.
			h.Log.Warn("application during registration failed", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		} else {
			redirect = "/clubs/" + clubHex + "?applied=1"
		}
	}

	if err := h.Sessions.SignIn(w, r, user.ID.Hex()); err != nil {
		h.Log.Warn("sign-in after registration failed", zap.Error(err))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (h *Handler) reRender(w http.ResponseWriter, r *http.Request, data registerData) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	clubs, err := h.Clubs.List(ctx, true)
	if err != nil {
		h.Log.Warn("list clubs for register re-render failed", zap.Error(err))
	}
	data.BaseVM = viewdata.NewBaseVM(r, "Register", "/")
	data.Clubs = clubs
	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "register", data)
}
