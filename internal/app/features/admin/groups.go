// internal/app/features/admin/groups.go
package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/doracare/murshid/internal/app/assignment"
	"github.com/doracare/murshid/internal/app/system/paging"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"github.com/doracare/murshid/internal/app/system/viewdata"
	"github.com/doracare/murshid/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

type adminGroupsPageData struct {
	viewdata.BaseVM
	Groups []models.GroupSummary
	Nav    paging.Nav
	Search string
}

type adminGroupDetailData struct {
	viewdata.BaseVM
	Group models.Group
	Pool  []models.Band // unassigned fleet bands the admin can grant
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/groups                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeGroups(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}

	page := paging.ParsePage(r)
	search := strings.TrimSpace(query.Get(r, "q"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, pg, err := h.Groups.AdminList(ctx, u.Token, page, paging.PageSize, search)
	if err != nil {
		h.Errors.Handle(w, r, err, "/admin")
		return
	}

	templates.Render(w, r, "admin_groups", adminGroupsPageData{
		BaseVM: viewdata.NewBaseVM(r, "Groups", "/admin"),
		Groups: groups,
		Nav:    paging.NewNav(pg),
		Search: search,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/groups/{id} — group with the grantable band pool                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeGroupDetail(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	board, err := h.Flow.BandBoard(ctx, u.Token, groupID, assignment.ScopeGlobal)
	if err != nil {
		h.Errors.Handle(w, r, err, "/admin/groups")
		return
	}

	templates.Render(w, r, "admin_group_detail", adminGroupDetailData{
		BaseVM: viewdata.NewBaseVM(r, board.Group.GroupName, "/admin/groups"),
		Group:  board.Group,
		Pool:   board.Bands,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/groups/{id}/bands/assign|unassign — bulk pool moves             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleAssignBands(w http.ResponseWriter, r *http.Request) {
	h.poolAction(w, r, h.Groups.AdminAssignBands)
}

func (h *Handler) HandleUnassignBands(w http.ResponseWriter, r *http.Request) {
	h.poolAction(w, r, h.Groups.AdminUnassignBands)
}

func (h *Handler) poolAction(
	w http.ResponseWriter,
	r *http.Request,
	act func(context.Context, string, string, []string) error,
) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		redirect(w, r, "/admin/groups/"+groupID)
		return
	}
	bandIDs := r.Form["band_ids"]
	if len(bandIDs) == 0 {
		redirect(w, r, "/admin/groups/"+groupID)
		return
	}

	// Band pool changes apply a whole selection in one call.
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := act(ctx, u.Token, groupID, bandIDs); err != nil {
		h.Errors.Handle(w, r, err, "/admin/groups/"+groupID)
		return
	}

	redirect(w, r, "/admin/groups/"+groupID)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/groups/{id}/delete                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Groups.AdminDelete(ctx, u.Token, groupID); err != nil {
		h.Errors.Handle(w, r, err, "/admin/groups")
		return
	}

	h.record(ctx, u, models.AuditGroupDelete, groupID, "")
	redirect(w, r, "/admin/groups")
}
