package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"car-listings-viewer/internal/client"
	"car-listings-viewer/internal/config"
	"car-listings-viewer/internal/handler"
	"car-listings-viewer/internal/service"
)

func main() {
	// Config (.env optional)
	envErr := config.LoadEnvFile()
	cfg := config.Load()

	// Structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if envErr != nil {
		slog.Debug("no .env file loaded", "error", envErr)
	}

	slog.Info("starting car-listings-viewer", "listings_api", cfg.ListingsAPI.BaseURL, "page_size", cfg.PageSize)

	api := client.NewListingsClient(client.Options{
		BaseURL:   cfg.ListingsAPI.BaseURL,
		Timeout:   cfg.ListingsAPI.Timeout,
		RateLimit: cfg.ListingsAPI.RateLimit,
		RateBurst: cfg.ListingsAPI.RateBurst,
		Logger:    logger,
	})

	view := service.NewViewService(api, cfg.PageSize, logger)

	// First page and statistics load in the background; failures are part of the view
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ListingsAPI.Timeout)
		defer cancel()
		if err := view.Load(ctx); err != nil {
			slog.Warn("initial load failed", "error", err)
		}
	}()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ListingsAPI.Timeout)
		defer cancel()
		if err := view.LoadAnalysis(ctx); err != nil {
			slog.Warn("analysis load failed", "error", err)
		}
	}()

	healthHandler := handler.NewHealthHandler(api)
	viewHandler := handler.NewViewHandler(view, api.BaseURL(), logger)

	srv := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      handler.NewRouter(healthHandler, viewHandler, cfg.OTelServiceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		slog.Info("server started", "port", cfg.APIPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
