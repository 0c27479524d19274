// internal/app/features/groups/bands.go
package groups

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/doracare/murshid/internal/app/assignment"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

type bandBoardData struct {
	GroupID   string
	PilgrimID string // target of the pending assignment, if any
	Scope     string
	Board     assignment.BandBoard
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /groups/{id}/bands?scope=group|global&pilgrim= — HTMX board            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeBandBoard(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	scopeName := query.Get(r, "scope")
	scope := assignment.ScopeGroup
	if scopeName == "global" {
		scope = assignment.ScopeGlobal
	} else {
		scopeName = "group"
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	board, err := h.Flow.BandBoard(ctx, u.Token, groupID, scope)
	if err != nil {
		h.Errors.Handle(w, r, err, "/groups/"+groupID)
		return
	}

	templates.Render(w, r, "band_board", bandBoardData{
		GroupID:   groupID,
		PilgrimID: query.Get(r, "pilgrim"),
		Scope:     scopeName,
		Board:     board,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/{id}/pilgrims/{pilgrimID}/band                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleAssignBand(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")
	pilgrimID := chi.URLParam(r, "pilgrimID")

	if err := r.ParseForm(); err != nil {
		redirect(w, r, "/groups/"+groupID)
		return
	}
	serial := strings.TrimSpace(r.FormValue("serial_number"))
	if serial == "" {
		redirect(w, r, "/groups/"+groupID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Flow.AssignBand(ctx, u.Token, groupID, pilgrimID, serial); err != nil {
		h.Errors.Handle(w, r, err, "/groups/"+groupID)
		return
	}

	redirect(w, r, "/groups/"+groupID)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/{id}/pilgrims/{pilgrimID}/band/remove                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleUnassignBand(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")
	pilgrimID := chi.URLParam(r, "pilgrimID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Flow.UnassignBand(ctx, u.Token, groupID, pilgrimID); err != nil {
		h.Errors.Handle(w, r, err, "/groups/"+groupID)
		return
	}

	redirect(w, r, "/groups/"+groupID)
}
