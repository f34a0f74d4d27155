package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/guideworks/guide-lab/internal/config"
	"github.com/guideworks/guide-lab/internal/database"
	"github.com/guideworks/guide-lab/internal/middleware"
	"github.com/guideworks/guide-lab/internal/server"
	"github.com/guideworks/guide-lab/internal/storage"
	"github.com/guideworks/guide-lab/pkg/logging"
	"github.com/guideworks/guide-lab/pkg/routes"
)

func main() {
	// Optional; environment variables win over config files either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Finalize(); err != nil {
		logging.Default().Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(&cfg.Logging)

	db, err := database.Open(&cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db, logger); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	if err := store.Start(); err != nil {
		logger.Error("failed to start storage", "error", err)
		os.Exit(1)
	}

	modules := NewModules(cfg, db, store, logger)

	router := routes.New(logger)
	modules.Mount(router)

	handler := middleware.TrimSlash()(
		middleware.CORS(&cfg.CORS)(
			middleware.RequestLogging(logger)(router.Build()),
		),
	)

	srv := server.New(&cfg.Server, handler, logger)
	if err := srv.Serve(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
