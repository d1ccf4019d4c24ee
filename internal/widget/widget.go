package widget

import (
	"context"
	"time"

	"github.com/bobby-s-dev/weather-widget/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Widget is one mounted weather lookup widget: an input field and the
// controller bound to it. Rendering is left to the host.
type Widget struct {
	ID         string
	Input      *InputField
	Controller *Controller
	MountedAt  time.Time
}

// Mount creates a widget with an empty query and an Idle state.
func Mount(weatherClient WeatherClient, logger *zap.Logger, opts ...Option) *Widget {
	id := uuid.NewString()
	input := NewInputField()
	return &Widget{
		ID:         id,
		Input:      input,
		Controller: NewController(input, weatherClient, logger.With(zap.String("widget_id", id)), opts...),
		MountedAt:  time.Now(),
	}
}

// Lookup replaces the query and triggers a lookup with it.
func (w *Widget) Lookup(ctx context.Context, city string) models.LookupState {
	w.Input.Set(city)
	return w.Controller.TriggerLookup(ctx)
}

// Snapshot returns the current query and state for rendering.
func (w *Widget) Snapshot() (string, models.LookupState) {
	return w.Input.Value(), w.Controller.State()
}
