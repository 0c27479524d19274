// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/doracare/murshid/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeNotifications)
		pr.Get("/unread", h.ServeUnreadBadge)
		pr.Post("/read-all", h.HandleMarkAllRead)
		pr.Post("/invitations/{invitationID}/accept", h.HandleAcceptInvitation)
		pr.Post("/invitations/{invitationID}/decline", h.HandleDeclineInvitation)
	})

	return r
}
