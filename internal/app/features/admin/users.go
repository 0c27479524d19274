// internal/app/features/admin/users.go
package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/doracare/murshid/internal/app/system/paging"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"github.com/doracare/murshid/internal/app/system/viewdata"
	"github.com/doracare/murshid/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

type usersPageData struct {
	viewdata.BaseVM
	Users  []models.User
	Nav    paging.Nav
	Search string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/users                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}

	page := paging.ParsePage(r)
	search := strings.TrimSpace(query.Get(r, "q"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, pg, err := h.Users.AdminList(ctx, u.Token, page, paging.PageSize, search)
	if err != nil {
		h.Errors.Handle(w, r, err, "/admin")
		return
	}

	templates.Render(w, r, "admin_users", usersPageData{
		BaseVM: viewdata.NewBaseVM(r, "Users", "/admin"),
		Users:  users,
		Nav:    paging.NewNav(pg),
		Search: search,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/users/{userID}/activate|deactivate|promote|demote               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleActivateUser(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, h.Users.Activate, models.AuditUserStatus, "activated")
}

func (h *Handler) HandleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, h.Users.Deactivate, models.AuditUserStatus, "deactivated")
}

func (h *Handler) HandlePromoteUser(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, h.Users.Promote, models.AuditUserRoleChange, "promoted to admin")
}

func (h *Handler) HandleDemoteUser(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, h.Users.Demote, models.AuditUserRoleChange, "demoted to moderator")
}

func (h *Handler) userAction(
	w http.ResponseWriter,
	r *http.Request,
	act func(context.Context, string, string) error,
	auditAction, detail string,
) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	targetID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := act(ctx, u.Token, targetID); err != nil {
		h.Errors.Handle(w, r, err, "/admin/users")
		return
	}

	h.record(ctx, u, auditAction, targetID, detail)
	redirect(w, r, "/admin/users")
}
