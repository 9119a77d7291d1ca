package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/MitsuruMe/momomoving-fe/internal/config"
	"github.com/MitsuruMe/momomoving-fe/internal/device"
	"github.com/MitsuruMe/momomoving-fe/internal/handlers"
	"github.com/MitsuruMe/momomoving-fe/internal/jobs"
	"github.com/MitsuruMe/momomoving-fe/internal/log"
	"github.com/MitsuruMe/momomoving-fe/internal/momoapi"
	"github.com/MitsuruMe/momomoving-fe/internal/security"
	"github.com/MitsuruMe/momomoving-fe/internal/server"
	"github.com/MitsuruMe/momomoving-fe/internal/session"
	"github.com/MitsuruMe/momomoving-fe/internal/storage"
	"github.com/MitsuruMe/momomoving-fe/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.LogLevel)

	ctx := context.Background()

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open device store")
	}

	sealer, err := security.NewTokenSealer(cfg.Security.TokenSecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init token sealer")
	}

	if err := validation.RegisterGin(); err != nil {
		logger.Fatal().Err(err).Msg("failed to register validation rules")
	}

	api := momoapi.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, log.Component(logger, "momoapi"))

	registry := device.NewRegistry(backend, api, device.Options{
		Session: session.Options{
			ErrorTTL: cfg.Session.ErrorTTL,
			Sealer:   sealer,
		},
	}, log.Component(logger, "device"))

	handlerSet := handlers.NewHandlerSet(log.Component(logger, "handlers"), cfg, api, registry, backend)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(registry, cfg.Session, log.Component(logger, "jobs"))
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, backend)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, backend storage.Backend) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop(shutdownCtx)

	if err := backend.Close(); err != nil {
		logger.Error().Err(err).Msg("store close error")
	}

	logger.Info().Msg("server exited cleanly")
}
