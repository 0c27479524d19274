// internal/app/features/auth/routes.go
package auth

import (
	"github.com/doracare/murshid/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// A signed-in visitor has no business on the sign-in page.
	r.Use(auth.RedirectIfSignedIn)

	r.Get("/", h.ServeAuthPage)
	r.Post("/login", h.HandleLogin)
	r.Post("/register", h.HandleRegister)

	return r
}
