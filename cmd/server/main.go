package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/marktree/internal/api"
	"github.com/dgallion1/marktree/internal/config"
	"github.com/dgallion1/marktree/internal/pathstore"
	"github.com/dgallion1/marktree/internal/pipeline"
	"github.com/dgallion1/marktree/internal/session"
	"github.com/dgallion1/marktree/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage.
	backend, err := openStore(cfg)
	if err != nil {
		log.Error("failed to open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	st := store.NewInstrumented(backend, time.Hour)

	// Initialize sessions and the import pipeline.
	sessions := session.NewManager(st, log, cfg.SessionTTL, cfg.AutosaveDelay)
	sessions.Start(ctx)
	orch := pipeline.NewOrchestrator(cfg, st, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(st, sessions, orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown. Sessions flush pending edits before exit.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		sessions.Stop(shutdownCtx)
		st.Close()
	}()

	log.Info("starting marktree", "port", cfg.Port, "backend", cfg.StoreBackend)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.StoreBackend == "pathstore" {
		return store.NewRemote(pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)), nil
	}
	return store.OpenSQLite(cfg.DBPath)
}
