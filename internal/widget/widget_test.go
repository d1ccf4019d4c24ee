package widget

import (
	"context"
	"testing"

	"github.com/bobby-s-dev/weather-widget/internal/models"
	"go.uber.org/zap/zaptest"
)

func TestInputField_SetAndNotify(t *testing.T) {
	f := NewInputField()
	if f.Value() != "" {
		t.Fatalf("new field value = %q, want empty", f.Value())
	}

	var changes []string
	f.OnChange(func(v string) { changes = append(changes, v) })

	f.Set("Par")
	f.Set("Paris")
	f.Set("Paris")

	if f.Value() != "Paris" {
		t.Errorf("Value = %q, want Paris", f.Value())
	}
	if len(changes) != 3 || changes[2] != "Paris" {
		t.Errorf("changes = %q, want three notifications", changes)
	}
}

func TestMount(t *testing.T) {
	fc := &fakeClient{fetch: func(ctx context.Context, city string) (*models.WeatherSnapshot, error) {
		return paris(), nil
	}}

	a := Mount(fc, zaptest.NewLogger(t))
	b := Mount(fc, zaptest.NewLogger(t))

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("widget ids must be unique and non-empty: %q %q", a.ID, b.ID)
	}

	query, state := a.Snapshot()
	if query != "" || state.Phase != models.PhaseIdle {
		t.Errorf("fresh widget = %q/%v, want empty/idle", query, state.Phase)
	}
}

func TestWidget_LookupSetsInput(t *testing.T) {
	fc := &fakeClient{fetch: func(ctx context.Context, city string) (*models.WeatherSnapshot, error) {
		return paris(), nil
	}}
	w := Mount(fc, zaptest.NewLogger(t))

	got := w.Lookup(context.Background(), "Paris")

	query, state := w.Snapshot()
	if query != "Paris" {
		t.Errorf("query = %q, want Paris", query)
	}
	if state != got {
		t.Errorf("snapshot state %+v differs from lookup result %+v", state, got)
	}
}
