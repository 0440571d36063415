// Package client provides the HTTP transport for the EasyPost API.
package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Client defines the transport operations the resource layer depends on.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type Client interface {
	// Get issues a GET request to the given API path with optional query parameters.
	Get(ctx context.Context, path string, query url.Values) (*Response, error)

	// Post issues a POST request with a JSON body.
	Post(ctx context.Context, path string, body any) (*Response, error)

	// Patch issues a PATCH request with a JSON body.
	Patch(ctx context.Context, path string, body any) (*Response, error)

	// Del issues a DELETE request.
	Del(ctx context.Context, path string) (*Response, error)
}

// Response is the outcome of a successful transport call.
type Response struct {
	StatusCode int
	Body       []byte
}

// APIError represents a non-success response from the EasyPost API.
type APIError struct {
	StatusCode  int
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"errors,omitempty"` // Field-level errors
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Is implements errors.Is for APIError, matching on Code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// joinPath joins a base URL and an API path without doubling slashes.
func joinPath(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
