// Package view projects a widget's LookupState onto display strings and
// renders them through swappable skins. Projection is pure; skins differ only
// in markup.
package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bobby-s-dev/weather-widget/internal/models"
)

const (
	DefaultIconBaseURL = "https://openweathermap.org/img/wn"

	LabelSearch  = "Search"
	LabelLoading = "Loading..."

	kelvinOffset = 273.15
)

// Renderer draws a View. Every skin implements it.
type Renderer interface {
	Render(w io.Writer, v View) error
}

type View struct {
	Query       string  `json:"query"`
	Loading     bool    `json:"loading"`
	ButtonLabel string  `json:"button_label"`
	Error       string  `json:"error,omitempty"`
	Result      *Result `json:"result,omitempty"`
}

type Result struct {
	Location    string `json:"location"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	WindSpeed   string `json:"wind_speed"`
}

func Project(query string, state models.LookupState, iconBaseURL string) View {
	v := View{
		Query:       query,
		ButtonLabel: LabelSearch,
	}

	switch state.Phase {
	case models.PhaseLoading:
		v.Loading = true
		v.ButtonLabel = LabelLoading
	case models.PhaseFailed:
		v.Error = state.Message
	case models.PhaseSucceeded:
		if state.Result != nil {
			v.Result = projectResult(state.Result, iconBaseURL)
		}
	}

	return v
}

func projectResult(s *models.WeatherSnapshot, iconBaseURL string) *Result {
	return &Result{
		Location:    FormatLocation(s.Location, s.Country),
		Description: s.Description,
		IconURL:     IconURL(iconBaseURL, s.IconID),
		Temperature: FormatCelsius(s.TemperatureK),
		Humidity:    fmt.Sprintf("%d%%", s.Humidity),
		WindSpeed:   FormatWindSpeed(s.WindSpeed),
	}
}

// FormatCelsius converts kelvin and rounds to two decimals: 300.15 -> "27.00°C".
func FormatCelsius(kelvin float64) string {
	return fmt.Sprintf("%.2f°C", kelvin-kelvinOffset)
}

func FormatWindSpeed(speed float64) string {
	return strconv.FormatFloat(speed, 'f', -1, 64) + " m/s"
}

func FormatLocation(name, country string) string {
	if country == "" {
		return name
	}
	return name + ", " + country
}

// IconURL builds <base>/<iconID>@2x.png. An empty iconID yields "".
func IconURL(baseURL, iconID string) string {
	if iconID == "" {
		return ""
	}
	if baseURL == "" {
		baseURL = DefaultIconBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + iconID + "@2x.png"
}
