// internal/app/features/groups/routes.go
package groups

import (
	"github.com/doracare/murshid/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// VIEW + live roster
		pr.Get("/{id}", h.ServeGroupView)
		pr.Get("/{id}/roster", h.ServeRosterSnippet)

		// NAME
		pr.Post("/{id}/name/edit", h.HandleBeginNameEdit)
		pr.Post("/{id}/name", h.HandleCommitName)
		pr.Post("/{id}/name/cancel", h.HandleCancelName)

		// DELETE
		pr.Post("/{id}/delete", h.HandleDeleteGroup)

		// PILGRIMS
		pr.Get("/{id}/pilgrims/search", h.ServePilgrimSearch)
		pr.Post("/{id}/pilgrims", h.HandleAddPilgrim)
		pr.Post("/{id}/pilgrims/register", h.HandleRegisterPilgrim)
		pr.Get("/{id}/pilgrims/{pilgrimID}", h.ServePilgrimDetail)
		pr.Post("/{id}/pilgrims/{pilgrimID}/remove", h.HandleRemovePilgrim)

		// BANDS
		pr.Get("/{id}/bands", h.ServeBandBoard)
		pr.Post("/{id}/pilgrims/{pilgrimID}/band", h.HandleAssignBand)
		pr.Post("/{id}/pilgrims/{pilgrimID}/band/remove", h.HandleUnassignBand)

		// MODERATORS
		pr.Post("/{id}/moderators/invite", h.HandleInviteModerator)
		pr.Post("/{id}/moderators/{userID}/remove", h.HandleRemoveModerator)
		pr.Post("/{id}/leave", h.HandleLeaveGroup)

		// ALERTS
		pr.Post("/{id}/alert", h.HandleGroupAlert)
		pr.Post("/{id}/pilgrims/{pilgrimID}/alert", h.HandlePilgrimAlert)
	})

	return r
}
