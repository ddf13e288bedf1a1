package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dataportal/internal/errors"
	"dataportal/internal/logging"
	"dataportal/ui/datatable"
)

//go:embed templates/*.html templates/fragments/*.html static/*
var embeddedFiles embed.FS

var logger = logging.Default.With("ui")

// App is the dataset browser web application
type App struct {
	router    *chi.Mux
	templates *template.Template
	views     *viewRegistry
	cfg       Config
}

// Config holds UI application configuration
type Config struct {
	// ScriptRoot is the base URL of the content API. When empty the
	// table is bound to Source in-process.
	ScriptRoot string
	Source     datatable.DataSource
	// FetchTimeout bounds the dataset fetch made for each new view.
	FetchTimeout time.Duration
	// ViewCacheSize caps the number of live table views.
	ViewCacheSize int
	// Content serves /content and /healthcheck when set.
	Content http.Handler
}

// NewApp creates a new UI application
func NewApp(cfg Config) (*App, error) {
	if cfg.ScriptRoot == "" && cfg.Source == nil {
		return nil, errors.ConfigInvalid("either a script root or an in-process dataset source is required")
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}

	views, err := newViewRegistry(cfg.ViewCacheSize)
	if err != nil {
		return nil, err
	}

	funcMap := template.FuncMap{
		"rowData": func(viewID string, row datatable.RowView) rowData {
			return rowData{ViewID: viewID, Row: row}
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		templates: templates,
		views:     views,
		cfg:       cfg,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		logger.Error("static filesystem unavailable: %v", err)
		return
	}
	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/datasets", a.handleDatasets)

	// HTMX fragments
	a.router.Get("/datasets/{view}/table", a.handleDatasetTable)
	a.router.Post("/datasets/{view}/rows/{row}/toggle", a.handleToggleRow)

	if a.cfg.Content != nil {
		a.router.Mount("/content", a.cfg.Content)
		a.router.Handle("/healthcheck", a.cfg.Content)
	}
}

// ServeHTTP implements http.Handler
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Start starts the UI server
func (a *App) Start(addr string) error {
	logger.Info("starting dataset browser on %s", addr)
	server := &http.Server{
		Addr:              addr,
		Handler:           a,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}
