package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrTransport marks failures where no usable response came back: the request
// could not complete, the body could not be read or decoded, or the breaker
// is open.
var ErrTransport = errors.New("weather request failed")

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 1 << 20

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response is a raw upstream reply. Non-2xx statuses are not errors at this
// layer; the caller decides what the body means.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type BaseClient struct {
	client         HTTPClient
	logger         *zap.Logger
	circuitBreaker *gobreaker.CircuitBreaker
}

type ClientConfig struct {
	Timeout time.Duration
	// Threshold is the number of consecutive transport failures that opens
	// the breaker. Zero disables tripping.
	Threshold      int
	BreakerTimeout time.Duration
	// HTTPClient overrides the default *http.Client, mostly for tests.
	HTTPClient HTTPClient
}

func NewBaseClient(name string, config ClientConfig, logger *zap.Logger) *BaseClient {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	// Only transport failures count against the breaker; an upstream 404 is
	// a healthy service saying no. A threshold of zero or less never trips,
	// so every call reaches the upstream.
	breakerSettings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if config.Threshold <= 0 {
				return false
			}
			return counts.ConsecutiveFailures >= uint32(config.Threshold)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("client", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &BaseClient{
		client:         httpClient,
		logger:         logger,
		circuitBreaker: gobreaker.NewCircuitBreaker(breakerSettings),
	}
}

// Get issues exactly one GET. There is no retry; a failed attempt is final.
func (c *BaseClient) Get(ctx context.Context, url string) (*Response, error) {
	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doGet(ctx, url)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	return result.(*Response), nil
}

func (c *BaseClient) doGet(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request failed: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("HTTP request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body failed: %w", err)
	}
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxResponseBytes)
	}

	c.logger.Debug("Request completed",
		zap.Int("status", resp.StatusCode),
		zap.Int("body_size", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *BaseClient) BreakerState() string {
	return c.circuitBreaker.State().String()
}
