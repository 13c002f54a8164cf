package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/response"
)

type DashboardHandler interface {
	Show(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	*Pages
	dashboardService dashboard.DashboardService
}

type dashboardPage struct {
	page
	Stats dashboard.Stats
}

func NewDashboardHandler(p *Pages, dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{Pages: p, dashboardService: dashboardService}
}

// Show implements DashboardHandler.
func (h *dashboardHandlerImpl) Show(w http.ResponseWriter, r *http.Request) {
	pg := h.base(r.Context(), "Dashboard", "dashboard")

	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		slog.Error("Dashboard stats error", "error", err)
		f := response.Classify(err)
		if f.SignIn {
			redirectToLogin(w, r)
			return
		}
		pg.Error = f.Message
	}

	h.views.Page(w, http.StatusOK, "dashboard", dashboardPage{page: pg, Stats: stats})
}
