package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kivotos-dev/fanhub/app/api"
	"github.com/kivotos-dev/fanhub/app/cfg"
	"github.com/kivotos-dev/fanhub/app/database"
	"github.com/kivotos-dev/fanhub/app/feed"
	"github.com/kivotos-dev/fanhub/app/seed"
	"github.com/kivotos-dev/fanhub/app/sync"
	"github.com/kivotos-dev/fanhub/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
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

	slog.Info("Starting fanhub server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "migration_version", version, "dirty", dirty)

	subRepo := database.NewSubscriptionRepository(db)
	workRepo := database.NewWorkRepository(db)

	if appCfg.SeedsDir != "" {
		seeder := seed.NewLoader(appCfg.SeedsDir, subRepo)
		if err := seeder.Run(); err != nil {
			slog.Error("Failed to seed subscriptions", "error", err)
			os.Exit(1)
		}
	}

	httpClient := &http.Client{}
	parser := feed.NewParser()
	cache := feed.NewItemCache(feed.CacheTTL)
	fetcher := feed.NewFetcher(httpClient, parser, cache, appCfg.RSSHubURL, appCfg.UserAgent)

	syncer := sync.NewSyncer(fetcher, subRepo, workRepo)
	defer syncer.Stop()

	scheduler := tasks.NewScheduler(syncer)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount,
		"sync_interval", (time.Duration(appCfg.SyncInterval) * time.Second).String())

	handler := api.NewHandler(subRepo, workRepo, syncer)
	server := api.NewServer(handler, appCfg.SyncAPIKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
