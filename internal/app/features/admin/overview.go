// internal/app/features/admin/overview.go
package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	userapi "github.com/doracare/murshid/internal/app/remote/users"
	"github.com/doracare/murshid/internal/app/system/timeouts"
	"github.com/doracare/murshid/internal/app/system/viewdata"
	"github.com/doracare/murshid/internal/domain/models"
	"go.uber.org/zap"
)

// Sessions idle longer than this don't count as "online now".
const onlineWindow = 15 * time.Minute

const recentAuditLimit = 20

type overviewPageData struct {
	viewdata.BaseVM
	Stats        userapi.Stats
	OpenSessions int64
	RecentAudit  []models.AuditEvent
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessionUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	stats, err := h.Users.AdminStats(ctx, u.Token)
	if err != nil {
		h.Errors.Handle(w, r, err, "/admin")
		return
	}

	data := overviewPageData{
		BaseVM: viewdata.NewBaseVM(r, "Overview", "/"),
		Stats:  stats,
	}

	// Local counters are best-effort; the remote stats are the page.
	if h.Records != nil {
		if n, err := h.Records.CountOpen(ctx, onlineWindow); err != nil {
			h.Log.Warn("count open sessions failed", zap.Error(err))
		} else {
			data.OpenSessions = n
		}
	}
	if h.Audit != nil {
		if events, err := h.Audit.Recent(ctx, "", recentAuditLimit); err != nil {
			h.Log.Warn("recent audit load failed", zap.Error(err))
		} else {
			data.RecentAudit = events
		}
	}

	templates.Render(w, r, "admin_overview", data)
}
