// internal/app/features/logout/handler.go
package logout

import (
	"context"
	"net/http"

	sessionstore "github.com/doracare/murshid/internal/app/store/sessions"
	"github.com/doracare/murshid/internal/app/system/auth"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler ends the dashboard session. The service token itself is not
// revoked remotely; dropping the cookie and closing the session record
// is the whole operation.
type Handler struct {
	Sessions *auth.Manager
	Records  *sessionstore.Store
	Log      *zap.Logger
}

func NewHandler(sessions *auth.Manager, records *sessionstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Sessions: sessions, Records: records, Log: logger}
}

// ServeLogout handles both POST (the nav form) and GET (typed URL).
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok && h.Records != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		if err := h.Records.CloseByToken(ctx, u.Token, sessionstore.EndedByLogout); err != nil {
			h.Log.Warn("close session record failed", zap.Error(err), zap.String("user_id", u.ID))
		}
	}

	h.Sessions.Clear(w, r)

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/auth")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/auth", http.StatusSeeOther)
}
