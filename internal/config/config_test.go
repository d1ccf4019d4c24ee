package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"FIBER_PORT", "OPENWEATHER_API_KEY", "OPENWEATHER_URL", "OPENWEATHER_TIMEOUT",
		"ICON_BASE_URL", "WIDGET_SKIN", "WIDGET_IDLE_TIMEOUT", "WIDGET_MAX_MOUNTED",
		"SWEEP_INTERVAL", "CIRCUIT_BREAKER_THRESHOLD",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.WeatherAPI.OpenWeatherAPIKey != "" {
		t.Errorf("API key = %q, want empty", cfg.WeatherAPI.OpenWeatherAPIKey)
	}
	if cfg.WeatherAPI.OpenWeatherURL != "https://api.openweathermap.org/data/2.5/weather" {
		t.Errorf("OpenWeatherURL = %q", cfg.WeatherAPI.OpenWeatherURL)
	}
	if cfg.WeatherAPI.IconBaseURL != "https://openweathermap.org/img/wn" {
		t.Errorf("IconBaseURL = %q", cfg.WeatherAPI.IconBaseURL)
	}
	if cfg.WeatherAPI.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.WeatherAPI.Timeout)
	}
	if cfg.Widget.Skin != "classic" {
		t.Errorf("Skin = %q, want classic", cfg.Widget.Skin)
	}
	if cfg.Widget.IdleTimeout != 30*time.Minute {
		t.Errorf("IdleTimeout = %v, want 30m", cfg.Widget.IdleTimeout)
	}
	if cfg.Widget.MaxMounted != 1000 {
		t.Errorf("MaxMounted = %d, want 1000", cfg.Widget.MaxMounted)
	}
	if cfg.Scheduler.SweepInterval != time.Minute {
		t.Errorf("SweepInterval = %v, want 1m", cfg.Scheduler.SweepInterval)
	}
	if cfg.CircuitBreaker.Threshold != 0 {
		t.Errorf("Threshold = %d, want 0", cfg.CircuitBreaker.Threshold)
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "secret")
	t.Setenv("WIDGET_SKIN", "card")
	t.Setenv("OPENWEATHER_TIMEOUT", "3s")
	t.Setenv("WIDGET_MAX_MOUNTED", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.WeatherAPI.OpenWeatherAPIKey != "secret" {
		t.Errorf("API key = %q, want secret", cfg.WeatherAPI.OpenWeatherAPIKey)
	}
	if cfg.Widget.Skin != "card" {
		t.Errorf("Skin = %q, want card", cfg.Widget.Skin)
	}
	if cfg.WeatherAPI.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.WeatherAPI.Timeout)
	}
	if cfg.Widget.MaxMounted != 0 {
		t.Errorf("MaxMounted = %d, want 0 for unparsable value", cfg.Widget.MaxMounted)
	}
}
