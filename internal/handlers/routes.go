package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// UI is implemented by the server-rendered dashboard.
type UI interface {
	Routes(r chi.Router)
}

func RegisterRoutes(r *chi.Mux, ui UI, dashboardHandler *DashboardHandler, recordHandler *RecordHandler, historyHandler *HistoryHandler) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Kursverwaltung API", "1.0.0")
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	RegisterAPI(api, dashboardHandler, recordHandler, historyHandler)

	if ui != nil {
		ui.Routes(r)
	}
}

// RegisterAPI registers the JSON operations on api.
func RegisterAPI(api huma.API, dashboardHandler *DashboardHandler, recordHandler *RecordHandler, historyHandler *HistoryHandler) {
	huma.Get(api, "/api/dashboard", dashboardHandler.HandleDashboard)

	// The literal route must come before /api/{entity}/{id}.
	huma.Post(api, "/api/anmeldungen/{id}/toggle-paid", recordHandler.HandleTogglePaid)

	huma.Get(api, "/api/history", historyHandler.HandleHistory)

	huma.Get(api, "/api/{entity}", recordHandler.HandleList)
	huma.Post(api, "/api/{entity}", recordHandler.HandleCreate, created)
	huma.Put(api, "/api/{entity}/{id}", recordHandler.HandleUpdate)
	huma.Delete(api, "/api/{entity}/{id}", recordHandler.HandleDelete)
}
