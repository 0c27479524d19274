// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/doracare/murshid/internal/app/features/errors"
	groupapi "github.com/doracare/murshid/internal/app/remote/groups"
	"github.com/doracare/murshid/internal/app/system/auth"
	"github.com/doracare/murshid/internal/app/system/htmlsanitize"
	"github.com/doracare/murshid/internal/app/system/inputval"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"github.com/doracare/murshid/internal/app/system/viewdata"
	"github.com/doracare/murshid/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the moderator landing page: the groups the acting user
// moderates, with a create form on the same page.
type Handler struct {
	Groups *groupapi.Store
	Errors *uierrors.Mapper
	Log    *zap.Logger
}

func NewHandler(groups *groupapi.Store, errMapper *uierrors.Mapper, logger *zap.Logger) *Handler {
	return &Handler{Groups: groups, Errors: errMapper, Log: logger}
}

type dashboardPageData struct {
	viewdata.BaseVM
	Groups      []models.GroupSummary
	CreateError string
	GroupName   string // re-fill on failed create
}

type createGroupForm struct {
	GroupName string `validate:"required,max=100" label:"Group name"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Groups.Dashboard(ctx, u.Token)
	if err != nil {
		h.Errors.Handle(w, r, err, "/dashboard")
		return
	}

	templates.Render(w, r, "dashboard_page", dashboardPageData{
		BaseVM: viewdata.NewBaseVM(r, "My Groups", "/"),
		Groups: groups,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/groups                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderWithCreateError(w, r, u.Token, "Invalid form data.", "")
		return
	}

	form := createGroupForm{GroupName: strings.TrimSpace(htmlsanitize.StripTags(r.FormValue("group_name")))}
	if res := inputval.Validate(form); res.HasErrors() {
		h.renderWithCreateError(w, r, u.Token, res.First(), form.GroupName)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Groups.Create(ctx, u.Token, form.GroupName); err != nil {
		h.Errors.Handle(w, r, err, "/dashboard")
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) renderWithCreateError(w http.ResponseWriter, r *http.Request, token, msg, name string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Groups.Dashboard(ctx, token)
	if err != nil {
		h.Log.Warn("dashboard reload after create error failed", zap.Error(err))
	}

	templates.Render(w, r, "dashboard_page", dashboardPageData{
		BaseVM:      viewdata.NewBaseVM(r, "My Groups", "/"),
		Groups:      groups,
		CreateError: msg,
		GroupName:   name,
	})
}
