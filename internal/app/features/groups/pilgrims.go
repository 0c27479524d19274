// internal/app/features/groups/pilgrims.go
package groups

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	pilgrimapi "github.com/doracare/murshid/internal/app/remote/pilgrims"
	"github.com/doracare/murshid/internal/app/system/htmlsanitize"
	"github.com/doracare/murshid/internal/app/system/inputval"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"github.com/doracare/murshid/internal/app/system/viewdata"
	"github.com/doracare/murshid/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type searchResultsData struct {
	GroupID    string
	Query      string
	Candidates []models.Pilgrim
}

type pilgrimPageData struct {
	viewdata.BaseVM
	GroupID string
	Pilgrim models.Pilgrim
	Band    *models.Band
}

type registerPilgrimForm struct {
	FullName       string `validate:"required,max=120" label:"Full name"`
	NationalID     string `validate:"required,max=30" label:"National ID"`
	Email          string `validate:"email,max=254" label:"Email"`
	Gender         string `validate:"max=20" label:"Gender"`
	MedicalHistory string `validate:"max=2000" label:"Medical history"`
}

// group returns the freshest group document available: the open roster
// view when there is one, a direct fetch otherwise.
func (h *Handler) group(ctx context.Context, token, groupID string) (models.Group, error) {
	if snap, open := h.Roster.Snapshot(groupID); open {
		return snap.Group, nil
	}
	return h.Groups.GetByID(ctx, token, groupID)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /groups/{id}/pilgrims/search?q= — HTMX live search                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePilgrimSearch(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")
	q := strings.TrimSpace(query.Get(r, "q"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.group(ctx, u.Token, groupID)
	if err != nil {
		h.Errors.Handle(w, r, err, "/dashboard")
		return
	}

	candidates, err := h.Flow.SearchCandidates(ctx, u.Token, q, g)
	if err != nil {
		h.Errors.Handle(w, r, err, "/groups/"+groupID)
		return
	}

	templates.Render(w, r, "pilgrim_search_results", searchResultsData{
		GroupID:    groupID,
		Query:      q,
		Candidates: candidates,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/{id}/pilgrims — add an existing pilgrim                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleAddPilgrim(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		redirect(w, r, "/groups/"+groupID)
		return
	}
	pilgrimID := strings.TrimSpace(r.FormValue("pilgrim_id"))
	if pilgrimID == "" {
		redirect(w, r, "/groups/"+groupID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Flow.AddPilgrim(ctx, u.Token, groupID, pilgrimID); err != nil {
		h.Errors.Handle(w, r, err, "/groups/"+groupID)
		return
	}

	redirect(w, r, "/groups/"+groupID)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/{id}/pilgrims/register — create and add in one step            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRegisterPilgrim(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		redirect(w, r, "/groups/"+groupID)
		return
	}

	form := registerPilgrimForm{
		FullName:       strings.TrimSpace(r.FormValue("full_name")),
		NationalID:     strings.TrimSpace(r.FormValue("national_id")),
		Email:          strings.TrimSpace(r.FormValue("email")),
		Gender:         strings.TrimSpace(r.FormValue("gender")),
		MedicalHistory: strings.TrimSpace(htmlsanitize.Sanitize(r.FormValue("medical_history"))),
	}
	if res := inputval.Validate(form); res.HasErrors() {
		h.renderRegisterError(w, r, groupID, res.First())
		return
	}

	in := pilgrimapi.RegisterInput{
		FullName:       form.FullName,
		NationalID:     form.NationalID,
		Email:          form.Email,
		Gender:         form.Gender,
		MedicalHistory: form.MedicalHistory,
	}
	if raw := strings.TrimSpace(r.FormValue("age")); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age < 0 || age > 130 {
			h.renderRegisterError(w, r, groupID, "Age must be a number between 0 and 130.")
			return
		}
		in.Age = &age
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Flow.RegisterPilgrim(ctx, u.Token, groupID, in); err != nil {
		h.Errors.Handle(w, r, err, "/groups/"+groupID)
		return
	}

	redirect(w, r, "/groups/"+groupID)
}

type registerErrorData struct {
	GroupID string
	Error   string
}

func (h *Handler) renderRegisterError(w http.ResponseWriter, r *http.Request, groupID, msg string) {
	templates.Render(w, r, "pilgrim_register_error", registerErrorData{
		GroupID: groupID,
		Error:   msg,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/{id}/pilgrims/{pilgrimID}/remove                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRemovePilgrim(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")
	pilgrimID := chi.URLParam(r, "pilgrimID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Flow.RemovePilgrim(ctx, u.Token, groupID, pilgrimID); err != nil {
		h.Errors.Handle(w, r, err, "/groups/"+groupID)
		return
	}

	redirect(w, r, "/groups/"+groupID)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /groups/{id}/pilgrims/{pilgrimID} — detail with live band readout       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePilgrimDetail(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")
	pilgrimID := chi.URLParam(r, "pilgrimID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.group(ctx, u.Token, groupID)
	if err != nil {
		h.Errors.Handle(w, r, err, "/dashboard")
		return
	}

	p, found := g.PilgrimByID(pilgrimID)
	if !found {
		redirect(w, r, "/groups/"+groupID)
		return
	}

	// The embedded band_info can be a poll interval old; fetch the band directly
	// for current battery and position.
	band := p.BandInfo
	if band != nil && band.SerialNumber != "" {
		fresh, err := h.Bands.GetBySerial(ctx, u.Token, band.SerialNumber)
		if err != nil {
			h.Log.Warn("band readout fetch failed",
				zap.String("serial", band.SerialNumber),
				zap.Error(err))
		} else {
			band = &fresh
		}
	}

	templates.Render(w, r, "pilgrim_page", pilgrimPageData{
		BaseVM:  viewdata.NewBaseVM(r, p.FullName, "/groups/"+groupID),
		GroupID: groupID,
		Pilgrim: p,
		Band:    band,
	})
}
