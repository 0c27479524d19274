// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/doracare/murshid/internal/app/system/viewdata"
)

// render writes the shared error page with the given title, message and
// status. backURL defaults sensibly when empty.
func render(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	if backURL == "" {
		backURL = "/dashboard"
	}
	w.WriteHeader(status)
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, title, backURL),
		Message: msg,
		Status:  status,
	}
	templates.Render(w, r, "error_page", data)
}

// RenderUnauthorized shows a friendly “sign in required” page.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/auth"
	}
	render(w, r, http.StatusUnauthorized, "Sign in required", "Please sign in to continue.", backURL)
}

// RenderForbidden shows a friendly access error page with a message.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "You don't have permission to do that."
	}
	render(w, r, http.StatusForbidden, "Access denied", msg, backURL)
}

// RenderNotFound shows a "not found" page pointing back at the listing
// the missing thing belonged to.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "That item no longer exists."
	}
	render(w, r, http.StatusNotFound, "Not found", msg, backURL)
}

// RenderBadRequest shows a validation failure page.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, http.StatusBadRequest, "Invalid input", msg, backURL)
}

// RenderTooManyRequests shows the rate-limit page with the service's
// wording so the operator knows to wait rather than retry.
func RenderTooManyRequests(w http.ResponseWriter, r *http.Request, backURL string) {
	render(w, r, http.StatusTooManyRequests, "Slow down",
		"Too many requests. Please wait a moment before trying again.", backURL)
}

// RenderServerError shows a generic failure page.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "Something went wrong. Please try again."
	}
	render(w, r, http.StatusInternalServerError, "Something went wrong", msg, backURL)
}
