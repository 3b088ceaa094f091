package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmaksimov/startup-pulse/app/api"
	"github.com/dmaksimov/startup-pulse/app/cfg"
	"github.com/dmaksimov/startup-pulse/app/database"
	"github.com/dmaksimov/startup-pulse/app/sources"
	"github.com/dmaksimov/startup-pulse/app/stories"
	"github.com/dmaksimov/startup-pulse/app/tasks"
	"github.com/dmaksimov/startup-pulse/app/timeline"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Startup Pulse server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	defer db.Close()
	slog.Info("Database opened", "path", appCfg.DBPath)

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}
	slog.Info("Migrations applied", "version", version, "dirty", dirty)

	// Repositories
	companyRepo := database.NewCompanyRepository(db)
	fundingRepo := database.NewFundingRepository(db)
	eventRepo := database.NewEventRepository(db)
	storyRepo := database.NewStoryRepository(db)
	submissionRepo := database.NewSubmissionRepository(db)
	lookupRepo := database.NewLookupRepository(db)

	// Source configurations
	configCache := sources.NewConfigCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		log.Fatal("Failed to load source configurations: ", err)
	}
	slog.Info("Source configurations loaded", "count", configCache.GetConfigCount())

	// Core components
	fetcher := timeline.NewStoreFetcher(companyRepo, fundingRepo, eventRepo, storyRepo)
	engine := timeline.NewEngine(fetcher)
	linker := stories.NewLinker(companyRepo, storyRepo)
	summaryExtractor := stories.NewSummaryExtractor()
	parser := sources.NewParser()
	httpClient := &http.Client{}

	// Background scheduler
	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(configCache, storyRepo, httpClient, parser, linker, summaryExtractor)
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP server
	handler := api.NewHandler(engine, companyRepo, fundingRepo, eventRepo, storyRepo,
		submissionRepo, lookupRepo, linker, configCache, scheduler, httpClient, appCfg.UserAgent)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Startup Pulse server started")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
