package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"intent-router/config"
	"intent-router/internal/bootstrap"
	"intent-router/internal/httpserver"
	"intent-router/pkg/log"
)

// @title       Intent Router API
// @description Routes natural-language queries to handlers by embedding similarity.
// @version     1
// @host        localhost:8080
func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config.yaml")
	flag.Parse()

	// 1. Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting intent router...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Index backend: %s, routes: %d", cfg.Index.Backend, len(cfg.Routes))

	// 3. Assistant
	app, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf(ctx, "Failed to build assistant: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warnf(ctx, "Close: %v", err)
		}
	}()

	if err := app.Warmup(ctx); err != nil {
		app.Close()
		logger.Fatalf(ctx, "Refusing to serve: %v", err)
	}

	// 4. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:           logger,
		Port:             cfg.HTTPServer.Port,
		Mode:             cfg.HTTPServer.Mode,
		Environment:      cfg.Environment.Name,
		RequestsPerMin:   cfg.RateLimit.RequestsPerMin,
		AdminToken:       cfg.HTTPServer.AdminToken,
		AssistantUseCase: app.UseCase,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 5. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
