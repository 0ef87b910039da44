package handlers

import (
	"context"
	"log"

	"github.com/gdg-garage/kursverwaltung/internal/dashboard"
)

type DashboardHandler struct {
	loader *dashboard.Loader
}

func NewDashboardHandler(loader *dashboard.Loader) *DashboardHandler {
	return &DashboardHandler{loader: loader}
}

type DashboardRequest struct{}

type DashboardResponse struct {
	Body struct {
		Stats        dashboard.Stats `json:"stats"`
		TotalRevenue string          `json:"total_revenue_display" doc:"Total revenue formatted for de-DE"`
		LoadError    string          `json:"load_error,omitempty" doc:"Set when some collections could not be loaded; their figures count as empty"`
	}
}

func (h *DashboardHandler) HandleDashboard(ctx context.Context, input *DashboardRequest) (*DashboardResponse, error) {
	snap, err := h.loader.Load(ctx)

	res := &DashboardResponse{}
	if err != nil {
		log.Printf("Error loading data: %v", err)
		res.Body.LoadError = err.Error()
	}
	res.Body.Stats = snap.Stats()
	res.Body.TotalRevenue = dashboard.FormatEuro(res.Body.Stats.TotalRevenue)
	return res, nil
}
