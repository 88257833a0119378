package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/VechkanovVV/webhook-repo/internal/api/handlers"
	"github.com/VechkanovVV/webhook-repo/internal/api/router"
	"github.com/VechkanovVV/webhook-repo/internal/feed"
	"github.com/VechkanovVV/webhook-repo/internal/normalizer"
	"github.com/VechkanovVV/webhook-repo/internal/service"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

func serve(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := setup(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("addr", cfg.Server.Addr),
		zap.String("driver", string(cfg.DB.Driver)),
		zap.Int("events_limit", cfg.Events.Limit))

	repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", zap.Error(err))
		return err
	}
	defer closeStore()

	hub := feed.NewHub(log.Named("feed"))
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	n := normalizer.New(normalizer.WithLogger(log.Named("normalizer")))
	eventService := service.NewEventService(repo, n, hub, log.Named("service"), cfg.Events.Limit)

	webhookHandler := handlers.NewWebhookHandler(eventService, cfg.Webhook.MaxBodyBytes, log)
	eventHandler := handlers.NewEventHandler(eventService, log)

	var limiter *rate.Limiter
	if cfg.Webhook.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Webhook.RateLimit), cfg.Webhook.RateBurst)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router.NewRouter(webhookHandler, eventHandler, hub, limiter, log.Named("http")),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			log.Error("HTTP server failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	stopHub()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	log.Info("server exited gracefully")
	return nil
}
