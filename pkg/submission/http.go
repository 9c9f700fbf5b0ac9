package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-needle-survey/pkg/model"
)

// DefaultEndpoint is the spreadsheet script that receives study responses.
const DefaultEndpoint = "https://script.google.com/macros/s/AKfycbw9C4sBDT1UfyitTXxqaNY3shFTKlbUS8BTZpiRMFUVjaS0a574G6O7ByDiQ8QtMtyN/exec"

// drainLimit caps how much of an ignored response body is read before the
// connection is released.
const drainLimit = 64 << 10

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithEndpoint overrides DefaultEndpoint. Empty values are ignored.
func WithEndpoint(endpoint string) Option {
	return func(c *HTTPClient) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			c.endpoint = trimmed
		}
	}
}

// WithHTTPClient injects the transport used to dispatch requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger attaches a logger for dispatch diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *HTTPClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// HTTPClient posts responses as JSON and treats the remote endpoint as a
// write-only channel: the status code and body are never inspected. No retry
// is attempted and no timeout is set beyond the transport's own defaults.
type HTTPClient struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient constructs a client for DefaultEndpoint unless overridden.
func NewHTTPClient(options ...Option) *HTTPClient {
	c := &HTTPClient{
		endpoint: DefaultEndpoint,
		http:     &http.Client{},
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Endpoint reports the URL responses are posted to.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// Submit dispatches response. Any local failure (encoding, request
// construction, network) is returned as a *TransportError.
func (c *HTTPClient) Submit(ctx context.Context, response model.SurveyResponse) error {
	body, err := json.Marshal(response)
	if err != nil {
		return transportError("encode response", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return transportError("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("dispatching survey response",
		zap.String("endpoint", c.endpoint),
		zap.String("participant_id", response.Demographics.ParticipantID),
		zap.Int("bytes", len(body)),
	)

	res, err := c.http.Do(req)
	if err != nil {
		return transportError("dispatch", err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, drainLimit))

	c.logger.Info("survey response dispatched", zap.String("participant_id", response.Demographics.ParticipantID))
	return nil
}
