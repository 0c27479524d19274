// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"net/http"

	"github.com/doracare/murshid/internal/app/assignment"
	uierrors "github.com/doracare/murshid/internal/app/features/errors"
	bandapi "github.com/doracare/murshid/internal/app/remote/bands"
	groupapi "github.com/doracare/murshid/internal/app/remote/groups"
	userapi "github.com/doracare/murshid/internal/app/remote/users"
	auditstore "github.com/doracare/murshid/internal/app/store/audit"
	sessionstore "github.com/doracare/murshid/internal/app/store/sessions"
	"github.com/doracare/murshid/internal/app/system/auth"
	"github.com/doracare/murshid/internal/domain/models"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the admin surface:
// platform stats, account management, group oversight and the band
// fleet.
type Handler struct {
	Users   *userapi.Store
	Groups  *groupapi.Store
	Bands   *bandapi.Store
	Flow    *assignment.Workflow
	Records *sessionstore.Store
	Audit   *auditstore.Store
	Errors  *uierrors.Mapper
	Log     *zap.Logger
}

func NewHandler(
	users *userapi.Store,
	groups *groupapi.Store,
	bands *bandapi.Store,
	flow *assignment.Workflow,
	records *sessionstore.Store,
	audit *auditstore.Store,
	errMapper *uierrors.Mapper,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:   users,
		Groups:  groups,
		Bands:   bands,
		Flow:    flow,
		Records: records,
		Audit:   audit,
		Errors:  errMapper,
		Log:     logger,
	}
}

// sessionUser resolves the acting admin or redirects to sign-in.
func (h *Handler) sessionUser(w http.ResponseWriter, r *http.Request) (*auth.SessionUser, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
	}
	return u, ok
}

// record writes an audit event, logging rather than failing the request
// when the local store is unavailable.
func (h *Handler) record(ctx context.Context, u *auth.SessionUser, action, subject, detail string) {
	if h.Audit == nil {
		return
	}
	ev := models.AuditEvent{
		Action:    action,
		ActorID:   u.ID,
		ActorName: u.Name,
		Subject:   subject,
		Detail:    detail,
	}
	if err := h.Audit.Record(ctx, ev); err != nil {
		h.Log.Warn("audit record failed",
			zap.String("action", action),
			zap.String("subject", subject),
			zap.Error(err))
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
