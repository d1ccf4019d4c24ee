// Command lookup runs the weather widget in a terminal. With -city it performs
// one lookup; otherwise every line read from stdin is looked up in turn.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bobby-s-dev/weather-widget/internal/config"
	"github.com/bobby-s-dev/weather-widget/internal/models"
	"github.com/bobby-s-dev/weather-widget/internal/view"
	"github.com/bobby-s-dev/weather-widget/internal/widget"
	"github.com/bobby-s-dev/weather-widget/pkg/client"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	city := flag.String("city", "", "city to look up; reads one city per line from stdin when empty")
	verbose := flag.Bool("v", false, "log debug output to stderr")
	flag.Parse()

	logger := newLogger(*verbose)
	zap.ReplaceGlobals(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	w := widget.Mount(weatherClient, logger)

	code := run(ctx, *city, os.Stdin, os.Stdout, w, cfg.WeatherAPI.IconBaseURL)

	stop()
	logger.Sync()
	os.Exit(code)
}

// run renders every state change of w to out. With a non-empty city it does
// one lookup and returns 1 unless it succeeded; otherwise it looks up each
// line of in and returns 1 only when reading fails.
func run(ctx context.Context, city string, in io.Reader, out io.Writer, w *widget.Widget, iconBaseURL string) int {
	var renderer view.TextRenderer
	w.Controller.Subscribe(func(state models.LookupState) {
		v := view.Project(w.Input.Value(), state, iconBaseURL)
		if err := renderer.Render(out, v); err != nil {
			zap.L().Error("Failed to render widget", zap.Error(err))
		}
	})

	if city != "" {
		if state := w.Lookup(ctx, city); state.Phase != models.PhaseSucceeded {
			return 1
		}
		return 0
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return 0
		}
		w.Lookup(ctx, scanner.Text())
		fmt.Fprintln(out)
	}
	if err := scanner.Err(); err != nil {
		zap.L().Error("Failed to read input", zap.Error(err))
		return 1
	}
	return 0
}

// newLogger writes to stderr so stdout carries only the rendered widget.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
