// Command draftloop-server runs the draftloop REST API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/draftloop/draftloop/internal/api"
	"github.com/draftloop/draftloop/internal/config"
	"github.com/draftloop/draftloop/internal/db"
	"github.com/draftloop/draftloop/internal/db/migrations"
	"github.com/draftloop/draftloop/internal/dbpool"
	"github.com/draftloop/draftloop/internal/llm"
	"github.com/draftloop/draftloop/internal/service"
	"github.com/draftloop/draftloop/internal/store"
	"github.com/draftloop/draftloop/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	// WebSocket hub and the NOTIFY bridge feeding it.
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	bridge := db.NewNotifyBridge(log, pool, hub)
	if err := bridge.Start(ctx); err != nil {
		return err
	}

	// Stores.
	base := store.Base{Pool: pool, Log: log}
	versionStore := store.NewVersionStore(base)
	derivativeStore := store.NewDerivativeStore(base)
	auditStore := store.NewAuditStore(base)

	// Async audit recording.
	auditWorker := service.NewAuditWorker(auditStore, log, cfg.AuditQueueSize)
	go auditWorker.Run(ctx)

	// Services.
	var provider llm.Provider
	if cfg.LLMEnabled() {
		provider = llm.NewOpenAI(cfg.OpenAIKey.Value(), cfg.OpenAIModel)
		log.WithField("model", cfg.OpenAIModel).Info("AI regeneration enabled")
	} else {
		log.Info("AI regeneration disabled (no OPENAI_API_KEY)")
	}

	versionSvc := service.NewVersionService(versionStore, auditWorker, log)
	derivativeSvc := service.NewDerivativeService(derivativeStore, versionStore, provider, auditWorker, log)
	auditSvc := service.NewAuditService(auditStore, log)

	handler := api.NewRouter(ctx, &api.RouterDeps{
		Log:         log,
		Pool:        pool,
		Hub:         hub,
		Versions:    versionSvc,
		Derivatives: derivativeSvc,
		Audit:       auditSvc,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
		LLMModel:    cfg.OpenAIModel,
		LLMEnabled:  cfg.LLMEnabled(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.Addr(),
			"version": config.Version,
		}).Info("server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}

	// Drain WebSocket clients after the HTTP listener stops accepting.
	hub.Shutdown()

	log.Info("server stopped")

	return nil
}
