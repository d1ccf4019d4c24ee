package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     string
	}

	WeatherAPI struct {
		OpenWeatherAPIKey string
		OpenWeatherURL    string
		Timeout           time.Duration
		IconBaseURL       string
	}

	Widget struct {
		Skin        string
		IdleTimeout time.Duration
		MaxMounted  int
	}

	Scheduler struct {
		SweepInterval time.Duration
	}

	CircuitBreaker struct {
		Threshold int
		Timeout   time.Duration
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("FIBER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("FIBER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("FIBER_WRITE_TIMEOUT", "30s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	// Weather API configuration
	cfg.WeatherAPI.OpenWeatherAPIKey = getEnv("OPENWEATHER_API_KEY", "")
	cfg.WeatherAPI.OpenWeatherURL = getEnv("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5/weather")
	cfg.WeatherAPI.Timeout = parseDuration(getEnv("OPENWEATHER_TIMEOUT", "10s"))
	cfg.WeatherAPI.IconBaseURL = getEnv("ICON_BASE_URL", "https://openweathermap.org/img/wn")

	// Widget configuration
	cfg.Widget.Skin = getEnv("WIDGET_SKIN", "classic")
	cfg.Widget.IdleTimeout = parseDuration(getEnv("WIDGET_IDLE_TIMEOUT", "30m"))
	cfg.Widget.MaxMounted = parseInt(getEnv("WIDGET_MAX_MOUNTED", "1000"))

	// Scheduler configuration
	cfg.Scheduler.SweepInterval = parseDuration(getEnv("SWEEP_INTERVAL", "1m"))

	// Circuit breaker configuration
	cfg.CircuitBreaker.Threshold = parseInt(getEnv("CIRCUIT_BREAKER_THRESHOLD", "0"))
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	if cfg.WeatherAPI.OpenWeatherAPIKey == "" {
		zap.L().Warn("OPENWEATHER_API_KEY is not set, lookups will be rejected upstream")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}
