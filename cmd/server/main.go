package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ruizTechServices/new-main-1/cmd"
	"github.com/ruizTechServices/new-main-1/internal/config"
	"github.com/ruizTechServices/new-main-1/internal/gateway"
	"github.com/ruizTechServices/new-main-1/internal/llm"
	"github.com/ruizTechServices/new-main-1/internal/platform/logger"
	"github.com/ruizTechServices/new-main-1/internal/platform/otel"
	"github.com/ruizTechServices/new-main-1/internal/server"
	"go.uber.org/zap"

	// Import providers to trigger init() registration
	_ "github.com/ruizTechServices/new-main-1/internal/llm/anthropic"
	_ "github.com/ruizTechServices/new-main-1/internal/llm/google"
	_ "github.com/ruizTechServices/new-main-1/internal/llm/mistral"
	_ "github.com/ruizTechServices/new-main-1/internal/llm/openai"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Color,
	})
	log := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.CheckUpdates {
		go cmd.CheckForUpdates(ctx, log)
	}

	if cfg.Tracing.Enabled {
		shutdownTracer, err := otel.InitTracer(cfg.Tracing.ServiceName, log, os.Stdout)
		if err != nil {
			log.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Error("Tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	registry := llm.Bootstrap(cfg.Providers, log)

	var registerer prometheus.Registerer
	if cfg.Metrics.Enabled {
		registerer = prometheus.DefaultRegisterer
	}
	service := gateway.NewService(registry, log, gateway.NewMetrics(registerer))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.New(cfg, log, service).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port), zap.String("version", cmd.AppVersion))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
