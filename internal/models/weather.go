package models

import (
	"fmt"
)

// WeatherSnapshot is the decoded payload of one successful lookup.
// Temperature stays in kelvin; conversion happens at render time.
type WeatherSnapshot struct {
	Location     string  `json:"location"`
	Country      string  `json:"country"`
	Description  string  `json:"description"`
	IconID       string  `json:"icon_id"`
	TemperatureK float64 `json:"temperature_k"`
	Humidity     int     `json:"humidity"`
	WindSpeed    float64 `json:"wind_speed"`
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseFailed
	PhaseSucceeded
)

var phaseNames = map[Phase]string{
	PhaseIdle:      "idle",
	PhaseLoading:   "loading",
	PhaseFailed:    "failed",
	PhaseSucceeded: "succeeded",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	if _, ok := phaseNames[p]; !ok {
		return nil, fmt.Errorf("unknown phase %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for phase, name := range phaseNames {
		if name == string(text) {
			*p = phase
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", string(text))
}

// LookupState is the widget's lookup state. Message is only set when Failed
// and Result only when Succeeded; build values with the constructors below.
type LookupState struct {
	Phase   Phase            `json:"phase"`
	Message string           `json:"message,omitempty"`
	Result  *WeatherSnapshot `json:"result,omitempty"`
}

func Idle() LookupState {
	return LookupState{Phase: PhaseIdle}
}

func Loading() LookupState {
	return LookupState{Phase: PhaseLoading}
}

func Failed(message string) LookupState {
	return LookupState{Phase: PhaseFailed, Message: message}
}

func Succeeded(result *WeatherSnapshot) LookupState {
	return LookupState{Phase: PhaseSucceeded, Result: result}
}

func (s LookupState) IsLoading() bool {
	return s.Phase == PhaseLoading
}
