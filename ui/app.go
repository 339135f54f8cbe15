// Package ui serves the campaign dashboard: a single HTML page over the
// loaded bundle, a JSON API for each result table, and CSV/XLSX export
// endpoints. The server owns no mutable state beyond the read-only
// bundle loaded at startup; every request recomputes its view through
// the report pipeline.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"promolens/internal"
	"promolens/internal/config"
	"promolens/models"
)

//go:embed templates/*
var embeddedFiles embed.FS

// App represents the dashboard application
type App struct {
	router    *chi.Mux
	bundle    *models.Bundle
	data      config.DataConfig
	templates *template.Template
	logger    *internal.Logger
}

// NewApp creates the dashboard over an already-loaded bundle.
func NewApp(bundle *models.Bundle, data config.DataConfig) (*App, error) {
	funcMap := template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("%.0f", v) },
		"ratio": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"pct":   func(v float64) string { return fmt.Sprintf("%.2f%%", v*100) },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		bundle:    bundle,
		data:      data,
		templates: templates,
		logger:    internal.DefaultLogger,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleDashboard)

	a.router.Get("/api/kpis", a.handleKPIs)
	a.router.Get("/api/top-influencers", a.handleTopInfluencers)
	a.router.Get("/api/iroas", a.handleIROAS)
	a.router.Get("/api/iroas/rollup", a.handleIROASRollup)
	a.router.Get("/api/revenue-series", a.handleRevenueSeries)

	a.router.Get("/export/top-influencers.csv", a.handleExportTopInfluencers)
	a.router.Get("/export/iroas.csv", a.handleExportIROAS)
	a.router.Get("/export/report.xlsx", a.handleExportWorkbook)
}

// Router exposes the chi mux, mainly for tests.
func (a *App) Router() http.Handler {
	return a.router
}

// Start begins serving on the given port.
func (a *App) Start(port string) error {
	a.logger.Info("dashboard listening on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}
