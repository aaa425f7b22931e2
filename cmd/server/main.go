// Command server is the entry point for the Inkspace engagement API.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkspace/internal/config"
	"inkspace/internal/jobs"
	"inkspace/internal/middleware"
	"inkspace/internal/observability"
	"inkspace/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := middleware.Logger

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "inkspace-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSamplerRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	scheduler := jobs.NewManager(logger)
	prune := jobs.NewPruneJob(srv.NotificationService(), srv.SearchService(), logger)
	if err := scheduler.Register(cfg.PruneSchedule, prune); err != nil {
		log.Fatalf("Failed to schedule prune job: %v", err)
	}
	scheduler.Start()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		scheduler.Stop(ctx)
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", slog.String("error", err.Error()))
		}
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("Tracing shutdown error", slog.String("error", err.Error()))
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatal(err)
	}
}
