// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	userstore "github.com/dalemusser/ukmhub/internal/app/store/users"
	"github.com/dalemusser/ukmhub/internal/app/system/auditlog"
	"github.com/dalemusser/ukmhub/internal/app/system/auth"
	"github.com/dalemusser/ukmhub/internal/app/system/normalize"
	"github.com/dalemusser/ukmhub/internal/app/system/timeouts"
	"github.com/dalemusser/ukmhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	DB            *mongo.Database
	Log           *zap.Logger
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	AuditLog      *auditlog.Logger
	Users         *userstore.Store
	GoogleEnabled bool
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, googleEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		AuditLog:      audit,
		Users:         userstore.New(db),
		GoogleEnabled: googleEnabled,
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

// ServeForm handles GET /login.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	data := loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL:     urlutil.SafeReturn(query.Get(r, "return"), "", "/dashboard"),
		GoogleEnabled: h.GoogleEnabled,
		Error:         oauthErrorMessage(query.Get(r, "error")),
	}
	templates.Render(w, r, "login", data)
}

// oauthErrorMessage maps Google sign-in failure codes (set by the OAuth
// callback redirects) to user-facing text.
func oauthErrorMessage(code string) string {
	switch code {
	case "":
		return ""
	case "google_denied":
		return "Google sign-in was cancelled."
	case "google_disabled":
		return "Google sign-in is not available."
	case "account_disabled":
		return "This account has been disabled."
	case "invalid_state", "invalid_code", "token_exchange", "user_info":
		return "Google sign-in failed. Please try again."
	default:
		return "Sign-in failed. Please try again."
	}
}

// HandleSubmit handles POST /login with email and password.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login form failed", err, "Invalid form data.", "/login")
		return
	}

	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	returnURL := urlutil.SafeReturn(r.FormValue("return"), "", "/dashboard")

	fail := func(msg string) {
		data := loginFormData{
			BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
			Error:         msg,
			Email:         email,
			ReturnURL:     returnURL,
			GoogleEnabled: h.GoogleEnabled,
		}
		w.WriteHeader(http.StatusUnauthorized)
		templates.Render(w, r, "login", data)
	}

	if email == "" || password == "" {
		fail("Email and password are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.AuditLog.LoginFailed(ctx, r, email, "unknown email")
			fail("Incorrect email or password.")
			return
		}
		h.ErrLog.LogServerError(w, r, "login lookup failed", err, "A database error occurred.", "/login")
		return
	}
	if user.Status == "disabled" {
		h.AuditLog.LoginFailed(ctx, r, email, "account disabled")
		fail("This account has been disabled.")
		return
	}
	if user.PasswordHash == "" {
		// Google-only account.
		h.AuditLog.LoginFailed(ctx, r, email, "no password set")
		fail("This account signs in with Google.")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		h.AuditLog.LoginFailed(ctx, r, email, "bad password")
		fail("Incorrect email or password.")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, user.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "sign-in failed", err, "Unable to sign you in.", "/login")
		return
	}

	h.AuditLog.LoginSuccess(ctx, r, user.ID, user.Role, "password")
	h.Log.Info("user signed in",
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", strings.ToLower(user.Role)),
	)
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}
