package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gdg-garage/kursverwaltung/internal/catalog"
	"github.com/gdg-garage/kursverwaltung/internal/config"
	"github.com/gdg-garage/kursverwaltung/internal/dashboard"
	"github.com/gdg-garage/kursverwaltung/internal/database"
	"github.com/gdg-garage/kursverwaltung/internal/handlers"
	"github.com/gdg-garage/kursverwaltung/internal/history"
	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
	"github.com/gdg-garage/kursverwaltung/internal/notifier"
	"github.com/gdg-garage/kursverwaltung/internal/tabs"
	"github.com/gdg-garage/kursverwaltung/internal/web"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Connect to Database
	db := database.Connect(cfg)
	recorder := history.NewRecorder(db)

	gateway := livingapps.NewClient(cfg.LivingAppsBaseURL, cfg.LivingAppsToken, cfg.LivingAppsTimeout)
	cat := catalog.New(cfg)

	var n notifier.Notifier
	discordNotifier, err := notifier.NewFromToken(cfg.DiscordBotToken, cfg.DiscordNotificationsChannelID)
	if err != nil {
		log.Printf("Discord notifier not initialized: %v", err)
	} else {
		n = discordNotifier
	}

	// Initialize Handlers
	set := tabs.New(cat, gateway, recorder, n)
	loader := dashboard.NewLoader(gateway, cat)

	dashboardHandler := handlers.NewDashboardHandler(loader)
	recordHandler := handlers.NewRecordHandler(cat, loader, set)
	historyHandler := handlers.NewHistoryHandler(recorder)
	ui := web.NewHandler(cat, loader, set, web.NewCSRF(cfg.CSRFSecret))

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, ui, dashboardHandler, recordHandler, historyHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
