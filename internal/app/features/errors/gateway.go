// internal/app/features/errors/gateway.go
package errors

import (
	"net/http"

	"github.com/doracare/murshid/internal/app/gateway"
	sessionstore "github.com/doracare/murshid/internal/app/store/sessions"
	"github.com/doracare/murshid/internal/app/system/auth"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Mapper turns gateway errors into the dashboard's uniform responses.
// One Mapper is built at startup and shared by every feature handler so
// a 401 always ends the session and a 404 always lands on the parent
// listing, no matter which page hit it.
//
// Records is optional; when set, a rejected token also closes the local
// session record.
type Mapper struct {
	Sessions *auth.Manager
	Records  *sessionstore.Store
	Log      *zap.Logger
}

func NewMapper(sessions *auth.Manager, logger *zap.Logger) *Mapper {
	return &Mapper{Sessions: sessions, Log: logger}
}

// Handle responds to a failed service call. parentURL is where a 404
// should land (the listing above the missing detail); it also serves as
// the back link on rendered error pages.
func (m *Mapper) Handle(w http.ResponseWriter, r *http.Request, err error, parentURL string) {
	if parentURL == "" {
		parentURL = "/dashboard"
	}

	switch {
	case gateway.IsUnauthorized(err):
		// The service no longer honors the token; the cookie is a lie.
		if m.Records != nil {
			if u, ok := auth.CurrentUser(r); ok {
				ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), m.Log, "close rejected session")
				defer cancel()
				if cerr := m.Records.CloseByToken(ctx, u.Token, sessionstore.EndedByUnauthorized); cerr != nil {
					m.Log.Warn("close session record failed", zap.Error(cerr))
				}
			}
		}
		m.Sessions.Clear(w, r)
		redirect(w, r, "/auth")

	case gateway.IsForbidden(err):
		redirect(w, r, "/dashboard")

	case gateway.IsNotFound(err):
		// Land on the parent listing with a notice instead of a
		// dead-end error page.
		msg := "That item no longer exists."
		if ge, ok := gateway.AsError(err); ok {
			msg = ge.UserMessage(msg)
		}
		m.Sessions.SetFlash(w, r, msg)
		redirect(w, r, parentURL)

	case gateway.IsRateLimited(err):
		RenderTooManyRequests(w, r, parentURL)

	case gateway.IsValidation(err) || gateway.IsConflict(err):
		msg := ""
		if ge, ok := gateway.AsError(err); ok {
			msg = ge.UserMessage("That change could not be applied.")
		}
		RenderBadRequest(w, r, msg, parentURL)

	default:
		m.Log.Error("service call failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		msg := "Something went wrong. Please try again."
		if ge, ok := gateway.AsError(err); ok {
			msg = ge.UserMessage(msg)
		}
		RenderServerError(w, r, msg, parentURL)
	}
}

// redirect honors HTMX requests with HX-Redirect, plain ones with 303.
func redirect(w http.ResponseWriter, r *http.Request, dest string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
