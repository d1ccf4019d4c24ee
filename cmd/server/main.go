package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobby-s-dev/weather-widget/internal/api"
	"github.com/bobby-s-dev/weather-widget/internal/config"
	"github.com/bobby-s-dev/weather-widget/internal/metrics"
	"github.com/bobby-s-dev/weather-widget/internal/scheduler"
	"github.com/bobby-s-dev/weather-widget/internal/services"
	"github.com/bobby-s-dev/weather-widget/internal/view"
	"github.com/bobby-s-dev/weather-widget/internal/widget"
	"github.com/bobby-s-dev/weather-widget/pkg/client"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger := newLogger(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting Weather Widget Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	weatherClient := client.NewOpenWeatherClient(
		cfg.WeatherAPI.OpenWeatherAPIKey,
		cfg.WeatherAPI.OpenWeatherURL,
		client.ClientConfig{
			Timeout:        cfg.WeatherAPI.Timeout,
			Threshold:      cfg.CircuitBreaker.Threshold,
			BreakerTimeout: cfg.CircuitBreaker.Timeout,
		},
		logger,
	)

	registry := services.NewWidgetRegistry(func() *widget.Widget {
		return widget.Mount(weatherClient, logger, widget.WithRecorder(m))
	}, cfg.Widget.IdleTimeout, cfg.Widget.MaxMounted, m, logger)

	// Initialize scheduler
	sweepScheduler := scheduler.NewScheduler(registry, cfg.Scheduler.SweepInterval, logger)

	renderer, err := view.NewTemplateRenderer(cfg.Widget.Skin)
	if err != nil {
		logger.Fatal("Failed to load widget templates", zap.Error(err))
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		Immutable:    true,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: api.ErrorHandler,
	})

	// Setup handlers and routes
	handler := api.NewHandler(registry, sweepScheduler, renderer, cfg.WeatherAPI.IconBaseURL, logger)
	api.SetupRoutes(app, handler, prometheus.DefaultGatherer, logger)

	// Start scheduler
	if err := sweepScheduler.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server",
			zap.String("address", addr),
			zap.String("skin", renderer.Skin()))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sweepScheduler.Stop()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func newLogger(level string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
