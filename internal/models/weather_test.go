package models

import (
	"encoding/json"
	"testing"
)

func TestLookupStateConstructors(t *testing.T) {
	snapshot := &WeatherSnapshot{Location: "Paris"}

	tests := []struct {
		name    string
		state   LookupState
		phase   Phase
		loading bool
		message string
		result  *WeatherSnapshot
	}{
		{"idle", Idle(), PhaseIdle, false, "", nil},
		{"loading", Loading(), PhaseLoading, true, "", nil},
		{"failed", Failed("nope"), PhaseFailed, false, "nope", nil},
		{"succeeded", Succeeded(snapshot), PhaseSucceeded, false, "", snapshot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.state.Phase != tt.phase {
				t.Errorf("Phase = %v, want %v", tt.state.Phase, tt.phase)
			}
			if tt.state.IsLoading() != tt.loading {
				t.Errorf("IsLoading = %v, want %v", tt.state.IsLoading(), tt.loading)
			}
			if tt.state.Message != tt.message {
				t.Errorf("Message = %q, want %q", tt.state.Message, tt.message)
			}
			if tt.state.Result != tt.result {
				t.Errorf("Result = %v, want %v", tt.state.Result, tt.result)
			}
		})
	}
}

func TestLookupStateJSON(t *testing.T) {
	data, err := json.Marshal(Failed("City not found"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"phase":"failed","message":"City not found"}` {
		t.Errorf("JSON = %s", data)
	}

	var state LookupState
	if err := json.Unmarshal([]byte(`{"phase":"loading"}`), &state); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !state.IsLoading() {
		t.Errorf("Phase = %v, want loading", state.Phase)
	}

	if err := json.Unmarshal([]byte(`{"phase":"sleeping"}`), &state); err == nil {
		t.Error("expected error for unknown phase")
	}
}
