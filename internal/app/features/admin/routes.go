// internal/app/features/admin/routes.go
package admin

import (
	"github.com/doracare/murshid/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Everything under /admin requires the admin role
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAdmin)

		// OVERVIEW
		pr.Get("/", h.ServeOverview)

		// USERS
		pr.Get("/users", h.ServeUsers)
		pr.Post("/users/{userID}/activate", h.HandleActivateUser)
		pr.Post("/users/{userID}/deactivate", h.HandleDeactivateUser)
		pr.Post("/users/{userID}/promote", h.HandlePromoteUser)
		pr.Post("/users/{userID}/demote", h.HandleDemoteUser)

		// GROUPS
		pr.Get("/groups", h.ServeGroups)
		pr.Get("/groups/{id}", h.ServeGroupDetail)
		pr.Post("/groups/{id}/bands/assign", h.HandleAssignBands)
		pr.Post("/groups/{id}/bands/unassign", h.HandleUnassignBands)
		pr.Post("/groups/{id}/delete", h.HandleDeleteGroup)

		// BANDS
		pr.Get("/bands", h.ServeBands)
		pr.Post("/bands", h.HandleRegisterBand)
		pr.Get("/bands/{serial}", h.ServeBandDetail)
		pr.Post("/bands/{serial}/activate", h.HandleActivateBand)
		pr.Post("/bands/{serial}/deactivate", h.HandleDeactivateBand)
		pr.Post("/bands/{serial}/delete", h.HandleForceDeleteBand)
	})

	return r
}
