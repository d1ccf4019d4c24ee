package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bobby-s-dev/weather-widget/internal/models"
	"go.uber.org/zap"
)

const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// ErrIncompleteResponse is returned when a 2xx body decodes but lacks a field
// the snapshot needs. It wraps ErrTransport.
var ErrIncompleteResponse = fmt.Errorf("%w: incomplete weather response", ErrTransport)

// APIError is the upstream rejecting a request (unknown city, bad key, quota).
// Message is the service's own text and may be empty.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("weather API error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("weather API error: HTTP %d: %s", e.StatusCode, e.Message)
}

type OpenWeatherClient struct {
	*BaseClient
	apiKey   string
	endpoint string
}

// Pointer fields tell "absent" from "zero" so a truncated body fails closed.
type OpenWeatherCurrentResponse struct {
	Name    *string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *int     `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Sys *struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// errorMessage returns the "message" of a JSON error body when it is a
// non-empty string. Any other valid JSON yields "".
func errorMessage(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	var message string
	if err := json.Unmarshal(fields["message"], &message); err != nil {
		return ""
	}
	return message
}

func NewOpenWeatherClient(apiKey, endpoint string, config ClientConfig, logger *zap.Logger) *OpenWeatherClient {
	if endpoint == "" {
		endpoint = DefaultOpenWeatherURL
	}
	baseClient := NewBaseClient("openweather", config, logger)
	return &OpenWeatherClient{
		BaseClient: baseClient,
		apiKey:     apiKey,
		endpoint:   endpoint,
	}
}

// CurrentWeatherURL builds the lookup URL. The city goes out untrimmed and
// no units parameter is sent, so temperatures come back in kelvin.
func (c *OpenWeatherClient) CurrentWeatherURL(city string) string {
	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return c.endpoint + sep + "q=" + url.QueryEscape(city) + "&appid=" + url.QueryEscape(c.apiKey)
}

// GetCurrentWeather returns the snapshot for city, an *APIError when the
// service rejected the request, or an error wrapping ErrTransport.
func (c *OpenWeatherClient) GetCurrentWeather(ctx context.Context, city string) (*models.WeatherSnapshot, error) {
	resp, err := c.Get(ctx, c.CurrentWeatherURL(city))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	if !resp.OK() {
		if !json.Valid(resp.Body) {
			return nil, fmt.Errorf("%w: failed to parse error response (HTTP %d)", ErrTransport, resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	var response OpenWeatherCurrentResponse
	if err := json.Unmarshal(resp.Body, &response); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %w", ErrTransport, err)
	}

	return response.snapshot()
}

func (r *OpenWeatherCurrentResponse) snapshot() (*models.WeatherSnapshot, error) {
	var missing []string
	if r.Name == nil {
		missing = append(missing, "name")
	}
	if len(r.Weather) == 0 {
		missing = append(missing, "weather")
	}
	if r.Main == nil || r.Main.Temp == nil {
		missing = append(missing, "main.temp")
	}
	if r.Main == nil || r.Main.Humidity == nil {
		missing = append(missing, "main.humidity")
	}
	if r.Wind == nil || r.Wind.Speed == nil {
		missing = append(missing, "wind.speed")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrIncompleteResponse, strings.Join(missing, ", "))
	}

	snapshot := &models.WeatherSnapshot{
		Location:     *r.Name,
		Description:  r.Weather[0].Description,
		IconID:       r.Weather[0].Icon,
		TemperatureK: *r.Main.Temp,
		Humidity:     *r.Main.Humidity,
		WindSpeed:    *r.Wind.Speed,
	}
	if r.Sys != nil {
		snapshot.Country = r.Sys.Country
	}

	return snapshot, nil
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
