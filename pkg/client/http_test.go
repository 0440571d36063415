package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/easypost/pkg/client"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *client.HTTPClient) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := client.NewHTTPClient(client.HTTPClientConfig{
		BaseURL: srv.URL,
		APIKey:  "EZTK_test",
	})
	return srv, c
}

func TestHTTPClient_Get_SetsAuthAndHeaders(t *testing.T) {
	var gotAuth, gotAccept, gotRequestID string
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		user, _, _ := r.BasicAuth()
		gotAuth = user
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"id":"shp_1"}`))
	})

	resp, err := c.Get(context.Background(), "shipments/shp_1", nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"shp_1"}`, string(resp.Body))
	assert.Equal(t, "EZTK_test", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.NotEmpty(t, gotRequestID)
}

func TestHTTPClient_Get_EncodesQuery(t *testing.T) {
	var gotQuery url.Values
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"shipments":[]}`))
	})

	query := url.Values{}
	query.Set("page_size", "5")
	_, err := c.Get(context.Background(), "shipments", query)

	require.NoError(t, err)
	assert.Equal(t, "5", gotQuery.Get("page_size"))
}

func TestHTTPClient_Post_MarshalsBody(t *testing.T) {
	var gotBody map[string]any
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"shp_1"}`))
	})

	resp, err := c.Post(context.Background(), "shipments", map[string]any{
		"shipment": map[string]any{"reference": "ord-1"},
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "ord-1", gotBody["shipment"].(map[string]any)["reference"])
}

func TestHTTPClient_ParsesVendorErrorEnvelope(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":{"code":"SHIPMENT.INVALID_PARAMS","message":"Unable to create shipment.","errors":{"parcel":"is required"}}}`))
	})

	_, err := c.Post(context.Background(), "shipments", map[string]any{})

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "SHIPMENT.INVALID_PARAMS", apiErr.Code)
	assert.Equal(t, "is required", apiErr.FieldErrors["parcel"])
}

func TestHTTPClient_ParsesPlainErrorBody(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`upstream unavailable`))
	})

	_, err := c.Get(context.Background(), "shipments", nil)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "HTTP_503", apiErr.Code)
	assert.Contains(t, apiErr.Message, "upstream unavailable")
}

func TestHTTPClient_Del(t *testing.T) {
	var gotMethod, gotPath string
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	resp, err := c.Del(context.Background(), "webhooks/hook_1")

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/webhooks/hook_1", gotPath)
}

func TestMockClient_RecordsCallsAndSimulatesErrors(t *testing.T) {
	mock := client.NewMockClient()
	mock.Stub("GET", "shipments/shp_1", 200, []byte(`{"id":"shp_1"}`))

	resp, err := mock.Get(context.Background(), "shipments/shp_1", nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	_, err = mock.Get(context.Background(), "shipments/other", nil)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)

	mock.SimulateErrors = true
	_, err = mock.Get(context.Background(), "shipments/shp_1", nil)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "MOCK_ERROR", apiErr.Code)

	assert.Len(t, mock.Calls(), 3)
}
