// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/doracare/murshid/internal/app/assignment"
	uierrors "github.com/doracare/murshid/internal/app/features/errors"
	notifyapi "github.com/doracare/murshid/internal/app/remote/notifications"
	"github.com/doracare/murshid/internal/app/system/auth"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"github.com/doracare/murshid/internal/app/system/viewdata"
	"github.com/doracare/murshid/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

const listLimit = 50

// Handler serves the notification feed: alerts, group invitations, and
// the accept/decline flow for the latter.
type Handler struct {
	Notifications *notifyapi.Store
	Flow          *assignment.Workflow
	Errors        *uierrors.Mapper
}

func NewHandler(notifications *notifyapi.Store, flow *assignment.Workflow, errMapper *uierrors.Mapper) *Handler {
	return &Handler{Notifications: notifications, Flow: flow, Errors: errMapper}
}

type notificationsPageData struct {
	viewdata.BaseVM
	Notifications []models.Notification
	Unread        int
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /notifications                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNotifications(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, unread, err := h.Notifications.List(ctx, u.Token, listLimit)
	if err != nil {
		h.Errors.Handle(w, r, err, "/dashboard")
		return
	}

	templates.Render(w, r, "notifications_page", notificationsPageData{
		BaseVM:        viewdata.NewBaseVM(r, "Notifications", "/dashboard"),
		Notifications: items,
		Unread:        unread,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /notifications/unread — HTMX badge for the nav                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeUnreadBadge(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, unread, err := h.Notifications.List(ctx, u.Token, 1)
	if err != nil {
		// The badge is decorative; an empty response beats an error page.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if unread > 0 {
		fmt.Fprintf(w, `<span class="badge">%d</span>`, unread)
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /notifications/read-all                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Notifications.MarkAllRead(ctx, u.Token); err != nil {
		h.Errors.Handle(w, r, err, "/notifications")
		return
	}

	http.Redirect(w, r, "/notifications", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /notifications/invitations/{invitationID}/accept|decline               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	h.handleInvitation(w, r, h.Flow.AcceptInvitation)
}

func (h *Handler) HandleDeclineInvitation(w http.ResponseWriter, r *http.Request) {
	h.handleInvitation(w, r, h.Flow.DeclineInvitation)
}

func (h *Handler) handleInvitation(w http.ResponseWriter, r *http.Request, act func(context.Context, string, string) error) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}
	invitationID := chi.URLParam(r, "invitationID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := act(ctx, u.Token, invitationID); err != nil {
		h.Errors.Handle(w, r, err, "/notifications")
		return
	}

	http.Redirect(w, r, "/notifications", http.StatusSeeOther)
}
