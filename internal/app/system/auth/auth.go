package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
	userName  = "user_name"
	userEmail = "user_email"
	userRole  = "user_role"
	apiToken  = "api_token"
)

// SessionUser is what we cache in the session & inject into r.Context().
// Token is the bearer token the tracking service issued at login; every
// remote call on the user's behalf carries it.
type SessionUser struct {
	ID    string
	Name  string
	Email string
	Role  string
	Token string
}

// IsAdmin reports whether the user holds the admin role.
func (u *SessionUser) IsAdmin() bool {
	return u != nil && strings.EqualFold(u.Role, "admin")
}

type ctxKey string

const (
	currentUserKey ctxKey = "currentUser"
	flashCtxKey    ctxKey = "flash"
)

// CurrentUser returns the user & “found?” flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// Manager owns the cookie session store. One Manager is built at
// startup and shared by the middleware and the login/logout handlers.
type Manager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds the cookie store. The `secure` flag controls
// whether cookies are marked Secure and which SameSite mode is used:
// Secure + SameSite=None in production, Lax over http://localhost.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*Manager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &Manager{store: store, name: name, log: logger}, nil
}

// Establish writes the signed-in user into the session cookie.
func (m *Manager) Establish(w http.ResponseWriter, r *http.Request, u SessionUser) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userName] = u.Name
	sess.Values[userEmail] = u.Email
	sess.Values[userRole] = u.Role
	sess.Values[apiToken] = u.Token
	return sess.Save(r, w)
}

// Clear expires the session cookie. Used on logout and when the
// tracking service rejects the stored token.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) {
	sess, _ := m.store.Get(r, m.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	_ = sess.Save(r, w)
}

// SetFlash queues a one-shot notice shown on the next rendered page,
// surviving the redirect in between.
func (m *Manager) SetFlash(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		return
	}
	sess, _ := m.store.Get(r, m.name)
	sess.AddFlash(msg)
	if err := sess.Save(r, w); err != nil {
		m.log.Warn("save flash failed", zap.Error(err))
	}
}

// Flash returns the notice queued for this request, if any. Set by
// LoadSessionUser; reading it here does not consume anything.
func Flash(r *http.Request) string {
	s, _ := r.Context().Value(flashCtxKey).(string)
	return s
}

// LoadSessionUser injects the user into context if they are logged in,
// and pops any queued flash notice into context for the page render.
func (m *Manager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := m.store.Get(r, m.name)

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:    getString(sess, userIDKey),
				Name:  getString(sess, userName),
				Email: getString(sess, userEmail),
				Role:  getString(sess, userRole),
				Token: getString(sess, apiToken),
			}
			if u.Token != "" {
				r = withUser(r, u)
			}
		}

		if flashes := sess.Flashes(); len(flashes) > 0 {
			if msg, ok := flashes[0].(string); ok && msg != "" {
				r = r.WithContext(context.WithValue(r.Context(), flashCtxKey, msg))
			}
			// Flashes() removed them from the session; persist that.
			_ = sess.Save(r, w)
		}

		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by
// LoadSessionUser). Anonymous visitors land on the sign-in page:
//   - HTMX: sends HX-Redirect to /auth (no partial swap)
//   - HTML: 303 redirect to /auth
//   - API:  401 Unauthorized with a plain error body.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		redirectOrError(w, r, "/auth", http.StatusUnauthorized, "unauthorized")
	})
}

// RequireAdmin gates the /admin surface. A signed-in non-admin is sent
// back to their dashboard rather than shown an error page; anonymous
// visitors get the sign-in redirect.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			redirectOrError(w, r, "/auth", http.StatusUnauthorized, "unauthorized")
			return
		}
		if !u.IsAdmin() {
			redirectOrError(w, r, "/dashboard", http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectIfSignedIn bounces an already-authenticated visitor off the
// sign-in page to their home surface: /admin for admins, /dashboard for
// everyone else.
func RedirectIfSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := CurrentUser(r); ok {
			dest := "/dashboard"
			if u.IsAdmin() {
				dest = "/admin"
			}
			http.Redirect(w, r, dest, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HomeFor maps a role to its landing path after login.
func HomeFor(role string) string {
	if strings.EqualFold(role, "admin") {
		return "/admin"
	}
	return "/dashboard"
}

// WithTestUser returns a request whose context carries the given user.
// Test-only; handlers under the auth middleware see it as signed in.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// helpers

func redirectOrError(w http.ResponseWriter, r *http.Request, dest string, status int, msg string) {
	// HTMX: full-page client redirect (no partial swap)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(status)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}
	// Non-HTML (API) callers: keep the status code
	http.Error(w, msg, status)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	// Very light heuristic: treat it as HTML if it's HTMX or Accepts text/html.
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
