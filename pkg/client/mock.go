package client

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// MockClient is a mock implementation of Client for testing.
// Canned responses are keyed by "METHOD path"; per-method hooks
// take precedence when set.
type MockClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnGet   func(ctx context.Context, path string, query url.Values) (*Response, error)
	OnPost  func(ctx context.Context, path string, body any) (*Response, error)
	OnPatch func(ctx context.Context, path string, body any) (*Response, error)
	OnDel   func(ctx context.Context, path string) (*Response, error)

	mu        sync.Mutex
	responses map[string]*Response
	calls     []MockCall
}

// MockCall records a single transport invocation.
type MockCall struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// NewMockClient creates a new mock transport with default behavior.
func NewMockClient() *MockClient {
	return &MockClient{
		responses: make(map[string]*Response),
	}
}

// Stub registers a canned response for "METHOD path".
func (m *MockClient) Stub(method, path string, statusCode int, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[method+" "+path] = &Response{StatusCode: statusCode, Body: body}
}

// Calls returns all recorded invocations in order.
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// Get returns the canned response for "GET path".
func (m *MockClient) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	if err := m.before("GET", path, query, nil); err != nil {
		return nil, err
	}
	if m.OnGet != nil {
		return m.OnGet(ctx, path, query)
	}
	return m.lookup("GET", path)
}

// Post returns the canned response for "POST path".
func (m *MockClient) Post(ctx context.Context, path string, body any) (*Response, error) {
	if err := m.before("POST", path, nil, body); err != nil {
		return nil, err
	}
	if m.OnPost != nil {
		return m.OnPost(ctx, path, body)
	}
	return m.lookup("POST", path)
}

// Patch returns the canned response for "PATCH path".
func (m *MockClient) Patch(ctx context.Context, path string, body any) (*Response, error) {
	if err := m.before("PATCH", path, nil, body); err != nil {
		return nil, err
	}
	if m.OnPatch != nil {
		return m.OnPatch(ctx, path, body)
	}
	return m.lookup("PATCH", path)
}

// Del returns the canned response for "DELETE path".
func (m *MockClient) Del(ctx context.Context, path string) (*Response, error) {
	if err := m.before("DELETE", path, nil, nil); err != nil {
		return nil, err
	}
	if m.OnDel != nil {
		return m.OnDel(ctx, path)
	}
	return m.lookup("DELETE", path)
}

func (m *MockClient) before(method, path string, query url.Values, body any) error {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Method: method, Path: path, Query: query, Body: body})
	m.mu.Unlock()

	if m.SimulateErrors {
		return &APIError{StatusCode: 500, Code: "MOCK_ERROR", Message: "Simulated API error"}
	}
	return nil
}

func (m *MockClient) lookup(method, path string) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if resp, ok := m.responses[method+" "+path]; ok {
		return resp, nil
	}
	return nil, &APIError{StatusCode: 404, Code: "NOT_FOUND", Message: "no mock response registered for " + method + " " + path}
}

// Ensure MockClient implements Client interface
var _ Client = (*MockClient)(nil)
