// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/doracare/murshid/internal/app/assignment"
	adminfeature "github.com/doracare/murshid/internal/app/features/admin"
	authfeature "github.com/doracare/murshid/internal/app/features/auth"
	dashboardfeature "github.com/doracare/murshid/internal/app/features/dashboard"
	errorsfeature "github.com/doracare/murshid/internal/app/features/errors"
	groupsfeature "github.com/doracare/murshid/internal/app/features/groups"
	healthfeature "github.com/doracare/murshid/internal/app/features/health"
	homefeature "github.com/doracare/murshid/internal/app/features/home"
	logoutfeature "github.com/doracare/murshid/internal/app/features/logout"
	notificationsfeature "github.com/doracare/murshid/internal/app/features/notifications"
	profilefeature "github.com/doracare/murshid/internal/app/features/profile"
	"github.com/doracare/murshid/internal/app/gateway"
	bandapi "github.com/doracare/murshid/internal/app/remote/bands"
	groupapi "github.com/doracare/murshid/internal/app/remote/groups"
	notifyapi "github.com/doracare/murshid/internal/app/remote/notifications"
	pilgrimapi "github.com/doracare/murshid/internal/app/remote/pilgrims"
	userapi "github.com/doracare/murshid/internal/app/remote/users"
	"github.com/doracare/murshid/internal/app/roster"
	auditstore "github.com/doracare/murshid/internal/app/store/audit"
	sessionstore "github.com/doracare/murshid/internal/app/store/sessions"
	"github.com/doracare/murshid/internal/app/system/auth"
	"github.com/doracare/murshid/internal/app/system/ratelimit"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"github.com/doracare/murshid/internal/app/system/workers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Long-lived pieces BuildHandler starts that Shutdown must stop.
var (
	rosterRec     *roster.Reconciler
	cleanupWorker *workers.SessionCleanup
)

// BuildHandler constructs the root HTTP handler for the dashboard.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. It builds the tracking-service
// gateway, the roster reconciler and assignment workflow on top of it,
// the local stores, and mounts every feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Outbound client toward the tracking service. Every remote store
	// shares it.
	api, err := gateway.New(appCfg.APIBaseURL, appCfg.APITimeout, logger)
	if err != nil {
		logger.Error("gateway init failed", zap.Error(err))
		return nil, err
	}
	api.SetUnauthorizedHook(func(ctx context.Context) {
		logger.Debug("tracking service rejected a session token")
	})

	userStore := userapi.New(api)
	groupStore := groupapi.New(api)
	bandStore := bandapi.New(api)
	pilgrimStore := pilgrimapi.New(api)
	notifyStore := notifyapi.New(api)

	rosterRec = roster.New(groupStore, logger,
		roster.WithInterval(appCfg.RosterPollInterval),
		roster.WithIdleAfter(appCfg.RosterIdleAfter))
	flow := assignment.New(groupStore, bandStore, pilgrimStore, notifyStore, rosterRec, logger)

	// Local stores: who signed in here, and what admins did from here.
	recordStore := sessionstore.New(deps.MongoDatabase)
	auditStore := auditstore.New(deps.MongoDatabase)

	limiter := ratelimit.NewLoginLimiterWithConfig(
		appCfg.LoginIPLimit, appCfg.LoginIPWindow,
		appCfg.LoginEmailLimit, appCfg.LoginEmailWindow)

	errMapper := errorsfeature.NewMapper(sessionMgr, logger)
	errMapper.Records = recordStore

	// Boot the template engine once; dev mode reloads templates on edit.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(touchSessions(recordStore, logger))

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	homeHandler := homefeature.NewHandler()
	r.Mount("/", homefeature.Routes(homeHandler))

	authHandler := authfeature.NewHandler(userStore, sessionMgr, recordStore, limiter, logger)
	r.Mount("/auth", authfeature.Routes(authHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, recordStore, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	dashboardHandler := dashboardfeature.NewHandler(groupStore, errMapper, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

	groupsHandler := groupsfeature.NewHandler(groupStore, bandStore, rosterRec, flow, errMapper, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))

	notificationsHandler := notificationsfeature.NewHandler(notifyStore, flow, errMapper)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler))

	profileHandler := profilefeature.NewHandler(userStore, recordStore, errMapper, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler))

	adminHandler := adminfeature.NewHandler(userStore, groupStore, bandStore, flow, recordStore, auditStore, errMapper, logger)
	r.Mount("/admin", adminfeature.Routes(adminHandler))

	cleanupWorker = workers.NewSessionCleanup(recordStore, logger,
		appCfg.SessionCleanupInterval, appCfg.SessionInactiveAfter)
	cleanupWorker.Start()

	return r, nil
}

// touchSessions bumps last_seen_at on the signed-in user's session
// record. Best-effort and off the request path; a dead local DB must
// never slow a page down.
func touchSessions(records *sessionstore.Store, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, ok := auth.CurrentUser(r); ok {
				token := u.Token
				go func() {
					ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
					defer cancel()
					if err := records.Touch(ctx, token); err != nil {
						logger.Debug("session touch failed", zap.Error(err))
					}
				}()
			}
			next.ServeHTTP(w, r)
		})
	}
}
