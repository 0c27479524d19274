// internal/app/features/groups/view.go
package groups

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/doracare/murshid/internal/app/assignment"
	"github.com/doracare/murshid/internal/app/roster"
	"github.com/doracare/murshid/internal/app/system/htmlsanitize"
	"github.com/doracare/murshid/internal/app/system/inputval"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"github.com/doracare/murshid/internal/app/system/viewdata"
	"github.com/doracare/murshid/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

type moderatorRow struct {
	User      models.User
	IsCreator bool
	Removable bool // acting user may remove this moderator
}

type groupPageData struct {
	viewdata.BaseVM
	Group      models.Group
	State      string
	Editing    bool
	Moderators []moderatorRow
	IsCreator  bool
	CanLeave   bool
}

type nameSnippetData struct {
	GroupID string
	Name    string
	Error   string
}

type groupNameForm struct {
	GroupName string `validate:"required,max=100" label:"Group name"`
}

func (h *Handler) pageData(r *http.Request, snap roster.Snapshot, userID string) groupPageData {
	g := snap.Group

	rows := make([]moderatorRow, 0, len(g.Moderators))
	for _, m := range g.Moderators {
		rows = append(rows, moderatorRow{
			User:      m,
			IsCreator: m.ID == g.CreatedBy,
			Removable: assignment.CanRemoveModerator(g, userID, m.ID),
		})
	}

	return groupPageData{
		BaseVM:     viewdata.NewBaseVM(r, g.GroupName, "/dashboard"),
		Group:      g,
		State:      snap.State.String(),
		Editing:    h.Roster.Editing(g.ID),
		Moderators: rows,
		IsCreator:  userID == g.CreatedBy,
		CanLeave:   assignment.CanLeaveGroup(g, userID),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /groups/{id}                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeGroupView(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	snap, err := h.Roster.Open(ctx, u.Token, groupID)
	if err != nil {
		h.Errors.Handle(w, r, err, "/dashboard")
		return
	}

	templates.Render(w, r, "group_page", h.pageData(r, snap, u.ID))
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /groups/{id}/roster — HTMX poll target                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRosterSnippet(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	snap, open := h.Roster.Snapshot(groupID)
	if !open {
		// Server restarted or the view idled out; reopen on demand.
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		var err error
		snap, err = h.Roster.Open(ctx, u.Token, groupID)
		if err != nil {
			h.Errors.Handle(w, r, err, "/dashboard")
			return
		}
	}

	templates.Render(w, r, "roster_snippet", h.pageData(r, snap, u.ID))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Group name editing. Begin/cancel swap snippets; commit renames through     |
| the reconciler so polls resume with the new name.                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleBeginNameEdit(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	if !h.Roster.BeginEdit(groupID) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()
		if _, err := h.Roster.Open(ctx, u.Token, groupID); err != nil {
			h.Errors.Handle(w, r, err, "/dashboard")
			return
		}
		h.Roster.BeginEdit(groupID)
	}

	snap, _ := h.Roster.Snapshot(groupID)
	templates.Render(w, r, "group_name_edit", nameSnippetData{
		GroupID: groupID,
		Name:    snap.Group.GroupName,
	})
}

func (h *Handler) HandleCommitName(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessionUser(w, r); !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		templates.Render(w, r, "group_name_edit", nameSnippetData{
			GroupID: groupID,
			Error:   "Invalid form data.",
		})
		return
	}

	form := groupNameForm{GroupName: strings.TrimSpace(htmlsanitize.StripTags(r.FormValue("group_name")))}
	if res := inputval.Validate(form); res.HasErrors() {
		templates.Render(w, r, "group_name_edit", nameSnippetData{
			GroupID: groupID,
			Name:    form.GroupName,
			Error:   res.First(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	snap, err := h.Roster.CommitEdit(ctx, groupID, form.GroupName)
	if err != nil {
		h.Errors.Handle(w, r, err, "/groups/"+groupID)
		return
	}

	templates.Render(w, r, "group_name_display", nameSnippetData{
		GroupID: groupID,
		Name:    snap.Group.GroupName,
	})
}

func (h *Handler) HandleCancelName(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessionUser(w, r); !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	h.Roster.CancelEdit(groupID)

	name := ""
	if snap, open := h.Roster.Snapshot(groupID); open {
		name = snap.Group.GroupName
	}
	templates.Render(w, r, "group_name_display", nameSnippetData{
		GroupID: groupID,
		Name:    name,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/{id}/delete                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Groups.Delete(ctx, u.Token, groupID); err != nil {
		h.Errors.Handle(w, r, err, "/groups/"+groupID)
		return
	}

	h.Roster.Close(groupID)
	redirect(w, r, "/dashboard")
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
