// internal/app/features/admin/bands.go
package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	bandapi "github.com/doracare/murshid/internal/app/remote/bands"
	"github.com/doracare/murshid/internal/app/system/inputval"
	"github.com/doracare/murshid/internal/app/system/paging"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"github.com/doracare/murshid/internal/app/system/viewdata"
	"github.com/doracare/murshid/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

type bandsPageData struct {
	viewdata.BaseVM
	Bands         []models.Band
	Nav           paging.Nav
	Status        string
	RegisterError string
	SerialNumber  string // re-fill on failed registration
	IMEI          string
}

type bandDetailData struct {
	viewdata.BaseVM
	Band models.Band
}

type registerBandForm struct {
	SerialNumber string `validate:"required,max=50" label:"Serial number"`
	IMEI         string `validate:"required,imei" label:"IMEI"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/bands?status=&page=                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeBands(w http.ResponseWriter, r *http.Request) {
	h.serveBands(w, r, "", registerBandForm{})
}

func (h *Handler) serveBands(w http.ResponseWriter, r *http.Request, regErr string, form registerBandForm) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}

	status := query.Get(r, "status")
	switch status {
	case models.BandActive, models.BandInactive, models.BandMaintenance:
	default:
		status = ""
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	bands, pg, err := h.Bands.List(ctx, u.Token, bandapi.ListFilter{
		Status: status,
		Page:   paging.ParsePage(r),
		Limit:  paging.PageSize,
	})
	if err != nil {
		h.Errors.Handle(w, r, err, "/admin")
		return
	}

	templates.Render(w, r, "admin_bands", bandsPageData{
		BaseVM:        viewdata.NewBaseVM(r, "Bands", "/admin"),
		Bands:         bands,
		Nav:           paging.NewNav(pg),
		Status:        status,
		RegisterError: regErr,
		SerialNumber:  form.SerialNumber,
		IMEI:          form.IMEI,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/bands — enroll a new band                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRegisterBand(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.serveBands(w, r, "Invalid form data.", registerBandForm{})
		return
	}

	form := registerBandForm{
		SerialNumber: strings.TrimSpace(r.FormValue("serial_number")),
		IMEI:         strings.TrimSpace(r.FormValue("imei")),
	}
	if res := inputval.Validate(form); res.HasErrors() {
		h.serveBands(w, r, res.First(), form)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Bands.Register(ctx, u.Token, bandapi.RegisterInput{
		SerialNumber: form.SerialNumber,
		IMEI:         form.IMEI,
	})
	if err != nil {
		h.Errors.Handle(w, r, err, "/admin/bands")
		return
	}

	h.record(ctx, u, models.AuditBandRegister, form.SerialNumber, "imei "+form.IMEI)
	redirect(w, r, "/admin/bands")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/bands/{serial}                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeBandDetail(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	serial := chi.URLParam(r, "serial")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	band, err := h.Bands.GetBySerial(ctx, u.Token, serial)
	if err != nil {
		h.Errors.Handle(w, r, err, "/admin/bands")
		return
	}

	templates.Render(w, r, "admin_band_detail", bandDetailData{
		BaseVM: viewdata.NewBaseVM(r, "Band "+band.SerialNumber, "/admin/bands"),
		Band:   band,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/bands/{serial}/activate|deactivate|delete                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleActivateBand(w http.ResponseWriter, r *http.Request) {
	h.bandAction(w, r, h.Bands.Activate, models.AuditBandActivate)
}

// HandleDeactivateBand soft-deletes: the band document survives with an
// inactive status and drops out of assignment pools.
func (h *Handler) HandleDeactivateBand(w http.ResponseWriter, r *http.Request) {
	h.bandAction(w, r, h.Bands.Deactivate, models.AuditBandDeactivate)
}

// HandleForceDeleteBand permanently removes the band document.
func (h *Handler) HandleForceDeleteBand(w http.ResponseWriter, r *http.Request) {
	h.bandAction(w, r, h.Bands.ForceDelete, models.AuditBandForceDelete)
}

func (h *Handler) bandAction(
	w http.ResponseWriter,
	r *http.Request,
	act func(context.Context, string, string) error,
	auditAction string,
) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	serial := chi.URLParam(r, "serial")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := act(ctx, u.Token, serial); err != nil {
		h.Errors.Handle(w, r, err, "/admin/bands")
		return
	}

	h.record(ctx, u, auditAction, serial, "")
	redirect(w, r, "/admin/bands")
}
