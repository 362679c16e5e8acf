package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// StartRequest is the body of a start-async call
type StartRequest struct {
	InputData      InputData      `json:"inputData"`
	RuntimeContext map[string]any `json:"runtimeContext"`
	TracingOptions TracingOptions `json:"tracingOptions"`
}

// InputData carries the user's text as the city to look up
type InputData struct {
	City string `json:"city"`
}

// TracingOptions is static tracing metadata sent with every call
type TracingOptions struct {
	Metadata map[string]map[string]any `json:"metadata"`
}

// StatusError is returned for a non-2xx response
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Starter starts a workflow run for one chat turn
type Starter interface {
	Start(ctx context.Context, city string) (Reply, error)
}

// Client talks to the workflow service
type Client struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new workflow client. A zero timeout means no deadline.
func NewClient(url string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:        url,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// NewStartRequest builds the request body for a city
func NewStartRequest(city string) StartRequest {
	return StartRequest{
		InputData:      InputData{City: city},
		RuntimeContext: map[string]any{},
		TracingOptions: TracingOptions{
			Metadata: map[string]map[string]any{"additionalProp1": {}},
		},
	}
}

// Start issues one start-async call and decodes the payload.
// Once issued the call is not tied to ctx cancellation: a turn always
// runs to completion or failure.
func (c *Client) Start(ctx context.Context, city string) (Reply, error) {
	ctx = context.WithoutCancel(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(NewStartRequest(city))
	if err != nil {
		return nil, fmt.Errorf("failed to encode workflow request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("workflow request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Workflow responded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow response: %w", err)
	}

	return Decode(payload), nil
}
