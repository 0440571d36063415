package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/easypost/internal/telemetry"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// HTTPClient is the production implementation of Client using HTTP.
// Authentication follows the EasyPost convention: the API key is
// the basic-auth username with an empty password.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *otelzap.Logger
	tracer     trace.Tracer
	metrics    *telemetry.Metrics
}

// HTTPClientConfig holds configuration for the HTTP client.
type HTTPClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *otelzap.Logger
	Tracer  trace.Tracer
	Metrics *telemetry.Metrics
}

// NewHTTPClient creates a new HTTP-based transport for production use.
func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}

	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		tracer:  cfg.Tracer,
		metrics: cfg.Metrics,
	}
}

// Get issues a GET request to the EasyPost API.
func (c *HTTPClient) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	target := path
	if len(query) > 0 {
		target = path + "?" + query.Encode()
	}
	return c.doRequest(ctx, http.MethodGet, target, nil)
}

// Post issues a POST request to the EasyPost API.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.doRequest(ctx, http.MethodPost, path, body)
}

// Patch issues a PATCH request to the EasyPost API.
func (c *HTTPClient) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.doRequest(ctx, http.MethodPatch, path, body)
}

// Del issues a DELETE request to the EasyPost API.
func (c *HTTPClient) Del(ctx context.Context, path string) (*Response, error) {
	return c.doRequest(ctx, http.MethodDelete, path, nil)
}

// doRequest performs an HTTP request with proper headers and authentication.
// Non-2xx responses are returned as *APIError. Retries, backoff, and
// reclassification are deliberately absent: callers own that policy.
func (c *HTTPClient) doRequest(ctx context.Context, method, path string, body any) (*Response, error) {
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "easypost.api.request",
			trace.WithAttributes(
				attribute.String("http.method", method),
				attribute.String("easypost.path", path),
			),
		)
		defer span.End()
	}

	target := joinPath(c.baseURL, path)

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", "tournevent-easypost/1.0")
	req.SetBasicAuth(c.apiKey, "")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start).Seconds()

	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordError(method, "transport")
		}
		c.logger.Error("EasyPost request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if c.metrics != nil {
		c.metrics.RecordRequest(method, path, resp.Status, duration)
	}

	c.logger.Debug("EasyPost request complete",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if c.metrics != nil {
			c.metrics.RecordError(method, fmt.Sprintf("http_%d", resp.StatusCode))
		}
		return nil, parseError(resp.StatusCode, respBody)
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// parseError extracts error information from an HTTP error response.
// The EasyPost API nests errors under an "error" key.
func parseError(statusCode int, body []byte) error {
	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil && envelope.Error.Code != "" {
		envelope.Error.StatusCode = statusCode
		return envelope.Error
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = statusCode
		return &apiErr
	}

	// Try to parse as a simple error message
	var simpleErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &simpleErr); err == nil {
		msg := simpleErr.Error
		if msg == "" {
			msg = simpleErr.Message
		}
		if msg != "" {
			return &APIError{
				StatusCode: statusCode,
				Code:       fmt.Sprintf("HTTP_%d", statusCode),
				Message:    msg,
			}
		}
	}

	return &APIError{
		StatusCode: statusCode,
		Code:       fmt.Sprintf("HTTP_%d", statusCode),
		Message:    string(body),
	}
}

// Ensure HTTPClient implements Client interface
var _ Client = (*HTTPClient)(nil)
