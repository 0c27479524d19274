// internal/app/features/groups/moderators.go
package groups

import (
	"context"
	"net/http"
	"strings"

	"github.com/doracare/murshid/internal/app/assignment"
	"github.com/doracare/murshid/internal/app/system/inputval"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/{id}/moderators/invite                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleInviteModerator(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		redirect(w, r, "/groups/"+groupID)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	if !inputval.IsValidEmail(email) {
		h.renderRegisterError(w, r, groupID, "A valid email address is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Flow.Invite(ctx, u.Token, groupID, email); err != nil {
		h.Errors.Handle(w, r, err, "/groups/"+groupID)
		return
	}

	redirect(w, r, "/groups/"+groupID)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/{id}/moderators/{userID}/remove                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRemoveModerator(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")
	targetID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// The page hides the control for non-creators; check again here so a
	// crafted request cannot bypass it. The service enforces this too.
	g, err := h.group(ctx, u.Token, groupID)
	if err != nil {
		h.Errors.Handle(w, r, err, "/dashboard")
		return
	}
	if !assignment.CanRemoveModerator(g, u.ID, targetID) {
		redirect(w, r, "/groups/"+groupID)
		return
	}

	if err := h.Flow.RemoveModerator(ctx, u.Token, groupID, targetID); err != nil {
		h.Errors.Handle(w, r, err, "/groups/"+groupID)
		return
	}

	redirect(w, r, "/groups/"+groupID)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/{id}/leave                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.group(ctx, u.Token, groupID)
	if err != nil {
		h.Errors.Handle(w, r, err, "/dashboard")
		return
	}
	if !assignment.CanLeaveGroup(g, u.ID) {
		redirect(w, r, "/groups/"+groupID)
		return
	}

	if err := h.Flow.Leave(ctx, u.Token, groupID); err != nil {
		h.Errors.Handle(w, r, err, "/groups/"+groupID)
		return
	}

	h.Roster.Close(groupID)
	redirect(w, r, "/dashboard")
}
