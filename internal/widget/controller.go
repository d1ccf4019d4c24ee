package widget

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bobby-s-dev/weather-widget/internal/metrics"
	"github.com/bobby-s-dev/weather-widget/internal/models"
	"github.com/bobby-s-dev/weather-widget/pkg/client"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// User-visible failure messages.
const (
	MsgEmptyInput   = "Please enter a city name."
	MsgCityNotFound = "City not found. Please try again."
	MsgFetchFailed  = "An error occurred while fetching data. Please try again."
)

// WeatherClient fetches current conditions for a city. Implementations return
// *client.APIError for upstream rejections; anything else is treated as a
// transport failure.
type WeatherClient interface {
	GetCurrentWeather(ctx context.Context, city string) (*models.WeatherSnapshot, error)
}

// LookupRecorder receives one observation per finished lookup cycle.
type LookupRecorder interface {
	ObserveLookup(outcome string, elapsed time.Duration)
}

// Controller runs the lookup cycle for one widget and owns its LookupState.
type Controller struct {
	input    *InputField
	client   WeatherClient
	logger   *zap.Logger
	recorder LookupRecorder

	mu         sync.Mutex
	state      models.LookupState
	generation uint64
	observers  []func(models.LookupState)
}

type Option func(*Controller)

func WithRecorder(recorder LookupRecorder) Option {
	return func(c *Controller) {
		c.recorder = recorder
	}
}

func NewController(input *InputField, weatherClient WeatherClient, logger *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		input:  input,
		client: weatherClient,
		logger: logger,
		state:  models.Idle(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn to run on every state transition. Observers run with
// the controller lock held and must not call back into the Controller.
func (c *Controller) Subscribe(fn func(models.LookupState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *Controller) State() models.LookupState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TriggerLookup runs one lookup cycle with the current input value and returns
// the state it ended in. A newer trigger supersedes an older in-flight one:
// the older response is dropped and the returned state is whatever the
// widget shows at that moment.
func (c *Controller) TriggerLookup(ctx context.Context) models.LookupState {
	query := c.input.Value()
	start := time.Now()

	if strings.TrimSpace(query) == "" {
		c.mu.Lock()
		c.generation++
		c.setLocked(models.Failed(MsgEmptyInput))
		state := c.state
		c.mu.Unlock()

		c.observe(metrics.OutcomeEmptyInput, start)
		return state
	}

	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.setLocked(models.Loading())
	c.mu.Unlock()

	lookupID := uuid.NewString()
	logger := c.logger.With(zap.String("lookup_id", lookupID), zap.String("city", query))
	logger.Debug("Lookup started")

	return c.run(ctx, query, generation, start, logger)
}

func (c *Controller) run(ctx context.Context, query string, generation uint64, start time.Time, logger *zap.Logger) (final models.LookupState) {
	next := models.Failed(MsgFetchFailed)
	outcome := metrics.OutcomeTransportError

	// Loading is always replaced here, including when the client panics.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Lookup panicked", zap.Any("panic", r), zap.Stack("stack"))
			next = models.Failed(MsgFetchFailed)
			outcome = metrics.OutcomeTransportError
		}

		c.mu.Lock()
		if generation == c.generation {
			c.setLocked(next)
		} else {
			logger.Debug("Dropping superseded lookup response")
			outcome = metrics.OutcomeSuperseded
		}
		final = c.state
		c.mu.Unlock()

		c.observe(outcome, start)
	}()

	snapshot, err := c.client.GetCurrentWeather(ctx, query)
	next, outcome = classify(snapshot, err)

	switch outcome {
	case metrics.OutcomeSucceeded:
		logger.Info("Lookup succeeded", zap.Duration("duration", time.Since(start)))
	case metrics.OutcomeApplicationError:
		logger.Info("Lookup rejected by weather service", zap.Error(err))
	default:
		logger.Error("Lookup failed", zap.Error(err))
	}

	return next
}

// classify maps a client result onto the terminal state and its outcome label.
func classify(snapshot *models.WeatherSnapshot, err error) (models.LookupState, string) {
	if err == nil {
		if snapshot == nil {
			return models.Failed(MsgFetchFailed), metrics.OutcomeTransportError
		}
		return models.Succeeded(snapshot), metrics.OutcomeSucceeded
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message == "" {
			return models.Failed(MsgCityNotFound), metrics.OutcomeApplicationError
		}
		return models.Failed(apiErr.Message), metrics.OutcomeApplicationError
	}

	return models.Failed(MsgFetchFailed), metrics.OutcomeTransportError
}

func (c *Controller) setLocked(state models.LookupState) {
	c.state = state
	for _, fn := range c.observers {
		fn(state)
	}
}

func (c *Controller) observe(outcome string, start time.Time) {
	if c.recorder != nil {
		c.recorder.ObserveLookup(outcome, time.Since(start))
	}
}
