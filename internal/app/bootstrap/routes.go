// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	agendafeature "github.com/dalemusser/ukmhub/internal/app/features/agenda"
	applicationsfeature "github.com/dalemusser/ukmhub/internal/app/features/applications"
	attendancefeature "github.com/dalemusser/ukmhub/internal/app/features/attendance"
	authgooglefeature "github.com/dalemusser/ukmhub/internal/app/features/authgoogle"
	clubsfeature "github.com/dalemusser/ukmhub/internal/app/features/clubs"
	dashboardfeature "github.com/dalemusser/ukmhub/internal/app/features/dashboard"
	docsfeature "github.com/dalemusser/ukmhub/internal/app/features/documentation"
	errorsfeature "github.com/dalemusser/ukmhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/ukmhub/internal/app/features/health"
	homefeature "github.com/dalemusser/ukmhub/internal/app/features/home"
	loginfeature "github.com/dalemusser/ukmhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/ukmhub/internal/app/features/logout"
	profilefeature "github.com/dalemusser/ukmhub/internal/app/features/profile"
	registerfeature "github.com/dalemusser/ukmhub/internal/app/features/register"
	"github.com/dalemusser/ukmhub/internal/app/store/audit"
	userstore "github.com/dalemusser/ukmhub/internal/app/store/users"
	"github.com/dalemusser/ukmhub/internal/app/system/auditlog"
	"github.com/dalemusser/ukmhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for the app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. It boots the template engine, applies session and
// CSRF middleware, and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"

	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on every request so role changes, club reassignments,
	// and disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Boot the template engine once at startup. Dev mode reloads templates.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Validated in ValidateConfig, so this cannot fail here.
	loc, err := time.LoadLocation(appCfg.Timezone)
	if err != nil {
		return nil, err
	}

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(deps.MongoDatabase), logger)

	r := chi.NewRouter()

	r.Use(sessionMgr.LoadSessionUser)
	r.Use(csrf.Protect(
		[]byte(appCfg.SessionKey),
		csrf.Secure(secure),
		csrf.Path("/"),
	))

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli).
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	clubsHandler := clubsfeature.NewHandler(deps.MongoDatabase, errLog, auditLog, logger)
	r.Mount("/clubs", clubsfeature.Routes(clubsHandler, sessionMgr))
	r.Mount("/admin/clubs", clubsfeature.AdminRoutes(clubsHandler, sessionMgr))

	// Authentication
	registerHandler := registerfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, auditLog, googleEnabled, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	googleHandler := authgooglefeature.NewHandler(deps.MongoDatabase, sessionMgr, auditLog, appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Role-routed dashboard
	dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, errLog, loc, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Officer workqueues
	applicationsHandler := applicationsfeature.NewHandler(deps.MongoDatabase, errLog, auditLog, logger)
	r.Mount("/applications", applicationsfeature.Routes(applicationsHandler, sessionMgr))

	agendaHandler := agendafeature.NewHandler(deps.MongoDatabase, errLog, loc, logger)
	r.Mount("/agenda", agendafeature.Routes(agendaHandler, sessionMgr))

	attendanceHandler := attendancefeature.NewHandler(deps.MongoDatabase, errLog, loc, logger)
	r.Mount("/attendance", attendancefeature.Routes(attendanceHandler, sessionMgr))

	docsHandler := docsfeature.NewHandler(deps.MongoDatabase, errLog, appCfg.UploadDir, loc, logger)
	r.Mount("/documentation", docsfeature.Routes(docsHandler, sessionMgr))

	// Self-service profile
	profileHandler := profilefeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	return r, nil
}
