// internal/app/features/groups/handler.go
package groups

import (
	"net/http"

	"github.com/doracare/murshid/internal/app/assignment"
	uierrors "github.com/doracare/murshid/internal/app/features/errors"
	bandapi "github.com/doracare/murshid/internal/app/remote/bands"
	groupapi "github.com/doracare/murshid/internal/app/remote/groups"
	"github.com/doracare/murshid/internal/app/roster"
	"github.com/doracare/murshid/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature:
// the group page, the live roster, pilgrim management, band assignment,
// moderators and alerts all hang off it.
type Handler struct {
	Groups *groupapi.Store
	Bands  *bandapi.Store
	Roster *roster.Reconciler
	Flow   *assignment.Workflow
	Errors *uierrors.Mapper
	Log    *zap.Logger
}

func NewHandler(
	groups *groupapi.Store,
	bands *bandapi.Store,
	rec *roster.Reconciler,
	flow *assignment.Workflow,
	errMapper *uierrors.Mapper,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Groups: groups,
		Bands:  bands,
		Roster: rec,
		Flow:   flow,
		Errors: errMapper,
		Log:    logger,
	}
}

// sessionUser resolves the acting user or redirects to sign-in.
func (h *Handler) sessionUser(w http.ResponseWriter, r *http.Request) (*auth.SessionUser, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
	}
	return u, ok
}
