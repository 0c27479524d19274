// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/doracare/murshid/internal/app/features/errors"
	userapi "github.com/doracare/murshid/internal/app/remote/users"
	sessionstore "github.com/doracare/murshid/internal/app/store/sessions"
	"github.com/doracare/murshid/internal/app/system/auth"
	"github.com/doracare/murshid/internal/app/system/inputval"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"github.com/doracare/murshid/internal/app/system/viewdata"
	"github.com/doracare/murshid/internal/domain/models"
	"go.uber.org/zap"
)

const historyLimit = 10

// Handler serves the acting user's profile with their recent dashboard
// sessions alongside.
type Handler struct {
	Users   *userapi.Store
	Records *sessionstore.Store
	Errors  *uierrors.Mapper
	Log     *zap.Logger
}

func NewHandler(users *userapi.Store, records *sessionstore.Store, errMapper *uierrors.Mapper, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Records: records, Errors: errMapper, Log: logger}
}

type profilePageData struct {
	viewdata.BaseVM
	Profile  models.User
	Sessions []models.SessionRecord
	Error    string
	Notice   string
}

type profileForm struct {
	FullName    string `validate:"required,max=120" label:"Full name"`
	PhoneNumber string `validate:"max=20" label:"Phone number"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /profile                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "", "")
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, errMsg, notice string) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	profile, err := h.Users.Me(ctx, u.Token)
	if err != nil {
		h.Errors.Handle(w, r, err, "/dashboard")
		return
	}

	var history []models.SessionRecord
	if h.Records != nil {
		history, err = h.Records.HistoryByUser(ctx, u.ID, historyLimit)
		if err != nil {
			h.Log.Warn("session history load failed", zap.Error(err), zap.String("user_id", u.ID))
		}
	}

	templates.Render(w, r, "profile_page", profilePageData{
		BaseVM:   viewdata.NewBaseVM(r, "Profile", auth.HomeFor(u.Role)),
		Profile:  profile,
		Sessions: history,
		Error:    errMsg,
		Notice:   notice,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /profile                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.serve(w, r, "Invalid form data.", "")
		return
	}

	form := profileForm{
		FullName:    strings.TrimSpace(r.FormValue("full_name")),
		PhoneNumber: strings.TrimSpace(r.FormValue("phone_number")),
	}
	if res := inputval.Validate(form); res.HasErrors() {
		h.serve(w, r, res.First(), "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Users.UpdateProfile(ctx, u.Token, userapi.ProfileUpdate{
		FullName:    form.FullName,
		PhoneNumber: form.PhoneNumber,
	})
	if err != nil {
		h.Errors.Handle(w, r, err, "/profile")
		return
	}

	h.serve(w, r, "", "Profile updated.")
}
