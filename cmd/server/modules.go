package main

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/guideworks/guide-lab/internal/config"
	"github.com/guideworks/guide-lab/internal/export"
	"github.com/guideworks/guide-lab/internal/guides"
	"github.com/guideworks/guide-lab/internal/imageproxy"
	"github.com/guideworks/guide-lab/internal/progress"
	"github.com/guideworks/guide-lab/internal/storage"
	"github.com/guideworks/guide-lab/internal/uploads"
	"github.com/guideworks/guide-lab/pkg/routes"
)

// Modules wires every subsystem to its HTTP surface.
type Modules struct {
	Guides  *guides.Handler
	Uploads *uploads.Handler
	Export  *export.Handler
	Proxy   *imageproxy.Handler
	Stream  *progress.Handler
	Storage *storage.Handler
}

// NewModules constructs all domain systems and their handlers.
func NewModules(cfg *config.Config, db *sql.DB, store storage.System, logger *slog.Logger) *Modules {
	sys := guides.New(db, logger)
	broker := progress.NewBroker()
	orchestrator := uploads.NewOrchestrator(store, broker, logger)
	exporter := export.New(&cfg.Export, logger)

	return &Modules{
		Guides:  guides.NewHandler(sys, orchestrator, logger),
		Uploads: uploads.NewHandler(orchestrator, sys, logger, cfg.Storage.MaxUploadSizeBytes()),
		Export:  export.NewHandler(exporter, sys, logger),
		Proxy:   imageproxy.NewHandler(exporter.Fetcher(), logger),
		Stream:  progress.NewHandler(broker, logger),
		Storage: storage.NewHandler(store, logger),
	}
}

// Mount registers every route group. API endpoints and the progress
// socket live under /api; stored objects are served from the root.
func (m *Modules) Mount(r routes.System) {
	r.RegisterGroup(routes.Group{
		Prefix:      "/api",
		Description: "Guide API",
		Children: []routes.Group{
			m.Guides.Routes(),
			m.Uploads.Routes(),
			m.Export.Routes(),
			m.Proxy.Routes(),
			m.Stream.Routes(),
		},
	})

	r.RegisterGroup(m.Storage.Routes())

	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/healthz",
		Handler: handleHealthCheck,
	})
}

// handleHealthCheck responds with OK status for health monitoring.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
