package services

import (
	"context"
	"testing"
	"time"

	"github.com/bobby-s-dev/weather-widget/internal/models"
	"github.com/bobby-s-dev/weather-widget/internal/widget"
	"go.uber.org/zap/zaptest"
)

type stubClient struct{}

func (stubClient) GetCurrentWeather(ctx context.Context, city string) (*models.WeatherSnapshot, error) {
	return &models.WeatherSnapshot{Location: city}, nil
}

type stubGauge struct {
	last int
}

func (g *stubGauge) SetMounted(n int) {
	g.last = n
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRegistry(t *testing.T, idle time.Duration, maxSize int) (*WidgetRegistry, *fakeClock, *stubGauge) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	gauge := &stubGauge{}
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}

	r := NewWidgetRegistry(func() *widget.Widget {
		return widget.Mount(stubClient{}, logger)
	}, idle, maxSize, gauge, logger)
	r.now = clock.now
	return r, clock, gauge
}

func TestGetOrMount_ReusesWidget(t *testing.T) {
	r, _, gauge := newTestRegistry(t, time.Minute, 10)

	a := r.GetOrMount("")
	b := r.GetOrMount(a.ID)

	if a != b {
		t.Error("expected the same widget for a known id")
	}
	if r.Len() != 1 || gauge.last != 1 {
		t.Errorf("mounted = %d, gauge = %d, want 1", r.Len(), gauge.last)
	}
}

func TestGetOrMount_UnknownIDMountsFresh(t *testing.T) {
	r, _, _ := newTestRegistry(t, time.Minute, 10)

	w := r.GetOrMount("forged-id")
	if w.ID == "forged-id" {
		t.Error("registry must not adopt caller-supplied ids")
	}
	if _, ok := r.Get(w.ID); !ok {
		t.Error("fresh widget not registered")
	}
}

func TestWidgetState_SurvivesBetweenRequests(t *testing.T) {
	r, _, _ := newTestRegistry(t, time.Minute, 10)

	w := r.GetOrMount("")
	w.Lookup(context.Background(), "Paris")

	again, ok := r.Get(w.ID)
	if !ok {
		t.Fatal("widget not found")
	}
	query, state := again.Snapshot()
	if query != "Paris" || state.Phase != models.PhaseSucceeded {
		t.Errorf("snapshot = %q/%v, want Paris/succeeded", query, state.Phase)
	}
}

func TestGet_ExpiresIdleWidget(t *testing.T) {
	r, clock, gauge := newTestRegistry(t, time.Minute, 10)

	w := r.GetOrMount("")
	clock.advance(2 * time.Minute)

	if _, ok := r.Get(w.ID); ok {
		t.Error("idle widget should have been unmounted")
	}
	if gauge.last != 0 {
		t.Errorf("gauge = %d, want 0", gauge.last)
	}
}

func TestGet_TouchKeepsWidgetAlive(t *testing.T) {
	r, clock, _ := newTestRegistry(t, time.Minute, 10)

	w := r.GetOrMount("")
	for i := 0; i < 5; i++ {
		clock.advance(45 * time.Second)
		if _, ok := r.Get(w.ID); !ok {
			t.Fatalf("widget unmounted after %d touches", i)
		}
	}
}

func TestSweep(t *testing.T) {
	r, clock, gauge := newTestRegistry(t, time.Minute, 10)

	stale := r.GetOrMount("")
	clock.advance(50 * time.Second)
	fresh := r.GetOrMount("")
	clock.advance(20 * time.Second)

	if removed := r.Sweep(); removed != 1 {
		t.Errorf("Sweep removed %d, want 1", removed)
	}
	if _, ok := r.Get(stale.ID); ok {
		t.Error("stale widget still mounted")
	}
	if _, ok := r.Get(fresh.ID); !ok {
		t.Error("fresh widget was swept")
	}
	if gauge.last != 1 {
		t.Errorf("gauge = %d, want 1", gauge.last)
	}
}

func TestSweep_ZeroIdleTimeoutNeverExpires(t *testing.T) {
	r, clock, _ := newTestRegistry(t, 0, 10)

	r.GetOrMount("")
	clock.advance(24 * time.Hour)

	if removed := r.Sweep(); removed != 0 {
		t.Errorf("Sweep removed %d, want 0", removed)
	}
}

func TestGetOrMount_EvictsLeastRecentlySeen(t *testing.T) {
	r, clock, _ := newTestRegistry(t, time.Hour, 2)

	first := r.GetOrMount("")
	clock.advance(time.Second)
	second := r.GetOrMount("")
	clock.advance(time.Second)
	r.Get(first.ID)
	clock.advance(time.Second)

	third := r.GetOrMount("")

	if r.Len() != 2 {
		t.Errorf("mounted = %d, want 2", r.Len())
	}
	if _, ok := r.Get(second.ID); ok {
		t.Error("least recently seen widget should have been evicted")
	}
	if _, ok := r.Get(first.ID); !ok {
		t.Error("recently seen widget was evicted")
	}
	if _, ok := r.Get(third.ID); !ok {
		t.Error("new widget missing")
	}
}

func TestUnmount(t *testing.T) {
	r, _, _ := newTestRegistry(t, time.Minute, 10)

	w := r.GetOrMount("")
	if !r.Unmount(w.ID) {
		t.Error("Unmount returned false for a mounted widget")
	}
	if r.Unmount(w.ID) {
		t.Error("Unmount returned true twice")
	}
}

func TestGetStats(t *testing.T) {
	r, _, _ := newTestRegistry(t, time.Minute, 10)
	r.GetOrMount("")
	r.GetOrMount("")

	stats := r.GetStats()
	if stats["mounted"] != 2 {
		t.Errorf("mounted = %v, want 2", stats["mounted"])
	}
	if stats["loading"] != 0 {
		t.Errorf("loading = %v, want 0", stats["loading"])
	}
	if stats["idle_timeout"] != "1m0s" {
		t.Errorf("idle_timeout = %v, want 1m0s", stats["idle_timeout"])
	}
}
