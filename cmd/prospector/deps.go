package main

import (
	"fmt"
	"os"

	"github.com/becked/prospector-sub006/internal/application/handlers"
	"github.com/becked/prospector-sub006/internal/domain/services"
	"github.com/becked/prospector-sub006/internal/infrastructure/config"
	"github.com/becked/prospector-sub006/internal/infrastructure/logger"
	"github.com/becked/prospector-sub006/internal/infrastructure/store/sqlite"
)

// Deps holds high-level dependencies for commands. Only handlers are exposed
// here; services and the repository stay internal.
type Deps struct {
	Config         *config.Config
	ImportHandler  *handlers.ImportHandler
	ResolveHandler *handlers.ResolveHandler
	RosterHandler  *handlers.RosterHandler
	StatusHandler  *handlers.StatusHandler
}

// withDeps loads config, builds the dependency graph, calls fn, and cleans
// up afterwards.
func withDeps(fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if globalDBPath != "" {
		cfg.DBPath = globalDBPath
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg.LogLevel)

	repo, err := sqlite.NewRepository(sqlite.Config{Path: cfg.DBPath}, log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer repo.Close()

	importService := services.NewImportService(repo, log, cfg.Workers)
	resolveService := services.NewResolveService(repo, repo, log)

	deps := &Deps{
		Config:         cfg,
		ImportHandler:  handlers.NewImportHandler(importService),
		ResolveHandler: handlers.NewResolveHandler(resolveService),
		RosterHandler:  handlers.NewRosterHandler(repo),
		StatusHandler:  handlers.NewStatusHandler(repo),
	}

	return fn(deps)
}
