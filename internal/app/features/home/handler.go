// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/doracare/murshid/internal/app/system/auth"
)

// Handler routes the bare root to wherever the visitor belongs.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// ServeHome sends signed-in users to their role's landing page and
// everyone else to the sign-in page.
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, auth.HomeFor(u.Role), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/auth", http.StatusSeeOther)
}
