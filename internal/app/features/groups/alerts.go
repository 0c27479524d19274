// internal/app/features/groups/alerts.go
package groups

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/doracare/murshid/internal/app/system/htmlsanitize"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

const maxAlertRunes = 500

// alertMessage trims, strips markup and bounds an alert body. The bound
// counts runes, not bytes; messages are often Arabic and cutting inside
// a multi-byte sequence would mangle the tail. Returns "" when nothing
// usable is left.
func alertMessage(raw string) string {
	msg := strings.TrimSpace(htmlsanitize.Sanitize(raw))
	if utf8.RuneCountInString(msg) > maxAlertRunes {
		msg = string([]rune(msg)[:maxAlertRunes])
	}
	return msg
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/{id}/alert — notify every pilgrim's device in the group        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleGroupAlert(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		redirect(w, r, "/groups/"+groupID)
		return
	}
	msg := alertMessage(r.FormValue("message"))
	if msg == "" {
		h.renderRegisterError(w, r, groupID, "Alert message is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Flow.SendGroupAlert(ctx, u.Token, groupID, msg); err != nil {
		h.Errors.Handle(w, r, err, "/groups/"+groupID)
		return
	}

	redirect(w, r, "/groups/"+groupID)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/{id}/pilgrims/{pilgrimID}/alert                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandlePilgrimAlert(w http.ResponseWriter, r *http.Request) {
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
	msg := alertMessage(r.FormValue("message"))
	if msg == "" {
		h.renderRegisterError(w, r, groupID, "Alert message is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Flow.SendPilgrimAlert(ctx, u.Token, pilgrimID, msg); err != nil {
		h.Errors.Handle(w, r, err, "/groups/"+groupID)
		return
	}

	redirect(w, r, "/groups/"+groupID+"/pilgrims/"+pilgrimID)
}
