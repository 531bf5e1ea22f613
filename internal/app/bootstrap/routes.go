// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	applicationsfeature "github.com/dancecollective/gigboard/internal/app/features/applications"
	dashboardfeature "github.com/dancecollective/gigboard/internal/app/features/dashboard"
	errorsfeature "github.com/dancecollective/gigboard/internal/app/features/errors"
	gigsfeature "github.com/dancecollective/gigboard/internal/app/features/gigs"
	healthfeature "github.com/dancecollective/gigboard/internal/app/features/health"
	homefeature "github.com/dancecollective/gigboard/internal/app/features/home"
	loginfeature "github.com/dancecollective/gigboard/internal/app/features/login"
	logoutfeature "github.com/dancecollective/gigboard/internal/app/features/logout"
	profilefeature "github.com/dancecollective/gigboard/internal/app/features/profile"
	registerfeature "github.com/dancecollective/gigboard/internal/app/features/register"
	roleswitchfeature "github.com/dancecollective/gigboard/internal/app/features/roleswitch"
	"github.com/dancecollective/gigboard/internal/app/session"
	applicationstore "github.com/dancecollective/gigboard/internal/app/store/applications"
	employerstore "github.com/dancecollective/gigboard/internal/app/store/employers"
	eventtypestore "github.com/dancecollective/gigboard/internal/app/store/eventtypes"
	gigrolestore "github.com/dancecollective/gigboard/internal/app/store/gigroles"
	gigstore "github.com/dancecollective/gigboard/internal/app/store/gigs"
	mediastore "github.com/dancecollective/gigboard/internal/app/store/media"
	memberstore "github.com/dancecollective/gigboard/internal/app/store/members"
	rolestore "github.com/dancecollective/gigboard/internal/app/store/roles"
	skillstore "github.com/dancecollective/gigboard/internal/app/store/skills"
	userstore "github.com/dancecollective/gigboard/internal/app/store/users"
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/app/system/mediaupload"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, the API client, and any Startup
// hooks have completed. The router layers, outermost first: CSRF protection,
// session loading, then the per-feature mounts. Every feature talks to the
// marketplace through a store built over the shared backend client.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// One store per backend resource, all over the shared client.
	users := userstore.New(deps.API)
	roles := rolestore.New(deps.API)
	skills := skillstore.New(deps.API)
	employers := employerstore.New(deps.API)
	members := memberstore.New(deps.API)
	gigs := gigstore.New(deps.API)
	gigRoles := gigrolestore.New(deps.API)
	applications := applicationstore.New(deps.API)
	eventTypes := eventtypestore.New(deps.API)
	media := mediastore.New(deps.API)

	// The session manager's counterpart on the data side: login, register,
	// refresh, and role switching against the backend.
	sessions := session.NewManager(users, roles, skills, employers, members, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Every state-changing form post carries a gorilla/csrf token.
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey),
		csrf.Secure(secure),
		csrf.Path("/"),
	))

	// Global auth middleware: decodes the session cookie into context so
	// handlers can call auth.CurrentSession(r).
	r.Use(sessionMgr.LoadSession)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.API, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(sessionMgr, sessions, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	registerHandler := registerfeature.NewHandler(sessionMgr, sessions, roles, skills, members, errLog, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Role-based dashboards
	dashboardHandler := dashboardfeature.NewHandler(gigs, gigRoles, applications, eventTypes, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Active-role switching
	roleswitchHandler := roleswitchfeature.NewHandler(sessionMgr, sessions, logger)
	r.Mount("/role", roleswitchfeature.Routes(roleswitchHandler, sessionMgr))

	// Gig management (employers)
	gigsHandler := gigsfeature.NewHandler(gigs, gigRoles, eventTypes, errLog, logger)
	r.Mount("/gigs", gigsfeature.Routes(gigsHandler, sessionMgr))

	// Application lifecycle
	applicationsHandler := applicationsfeature.NewHandler(applications, errLog, logger)
	r.Mount("/applications", applicationsfeature.Routes(applicationsHandler, sessionMgr))

	// Account page: roles, skills, media, deletion
	profileHandler := &profilefeature.Handler{
		Log: logger, Cookies: sessionMgr, Sessions: sessions,
		Users: users, Roles: roles, Skills: skills, Media: media,
		Uploads: mediaupload.New(appCfg.TimeoutLong),
		ErrLog:  errLog,
	}
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	return r, nil
}
