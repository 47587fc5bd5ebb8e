package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"car-listings-viewer/internal/client"
	"car-listings-viewer/internal/config"
	"car-listings-viewer/internal/service"
	"car-listings-viewer/internal/tui"
)

func main() {
	_ = config.LoadEnvFile() // .env is optional
	cfg := config.Load()

	base := flag.String("api", cfg.ListingsAPI.BaseURL, "listings API base URL")
	pageSize := flag.Int("page-size", cfg.PageSize, "listings per page")
	logFile := flag.String("log", "viewer.log", "log file (the terminal is used by the UI)")
	flag.Parse()

	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Error("failed to open log file", "path", *logFile, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if *pageSize <= 0 {
		*pageSize = config.DefaultPageSize
	}

	api := client.NewListingsClient(client.Options{
		BaseURL:   *base,
		Timeout:   cfg.ListingsAPI.Timeout,
		RateLimit: cfg.ListingsAPI.RateLimit,
		RateBurst: cfg.ListingsAPI.RateBurst,
		Logger:    logger,
	})
	view := service.NewViewService(api, *pageSize, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, unsubscribe := tui.Subscribe(view)
	defer unsubscribe()

	p := tea.NewProgram(tui.NewModel(ctx, view, api.BaseURL(), events), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("viewer exited with error", "error", err)
		os.Exit(1)
	}
}
