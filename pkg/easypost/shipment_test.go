package easypost_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/easypost/pkg/client"
	"github.com/tournevent/easypost/pkg/easypost"
	"github.com/tournevent/easypost/pkg/resource"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestAPI(mock *client.MockClient) *easypost.API {
	return easypost.New(mock, otelzap.New(zap.NewNop()))
}

func TestShipments_Save_SerializesIDReferences(t *testing.T) {
	mock := client.NewMockClient()
	mock.Stub("POST", "shipments", 201, []byte(`{"id":"shp_1","status":"unknown"}`))
	api := newTestAPI(mock)

	shipment := api.Shipments.Create(map[string]any{
		"to_address":   map[string]any{"id": "adr_to", "city": "Toronto"},
		"from_address": "adr_from",
		"parcel":       map[string]any{"id": "prc_1", "weight": 15.4},
	})

	_, err := api.Shipments.Save(context.Background(), shipment)
	require.NoError(t, err)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	body := calls[0].Body.(map[string]any)["shipment"].(map[string]any)
	assert.Equal(t, map[string]any{"id": "adr_to"}, body["to_address"])
	assert.Equal(t, map[string]any{"id": "adr_from"}, body["from_address"])
	assert.Equal(t, map[string]any{"id": "prc_1"}, body["parcel"])
}

func TestShipments_Buy(t *testing.T) {
	mock := client.NewMockClient()
	mock.Stub("POST", "shipments/shp_1/buy", 200, []byte(`{"id":"shp_1","status":"purchased","tracking_code":"EZ1000"}`))
	api := newTestAPI(mock)

	shipment := api.Shipments.Create(map[string]any{"id": "shp_1"})
	_, err := api.Shipments.Buy(context.Background(), shipment, "rate_1")

	require.NoError(t, err)
	assert.Equal(t, "purchased", shipment.GetString("status"))
	assert.Equal(t, "EZ1000", shipment.GetString("tracking_code"))

	calls := mock.Calls()
	require.Len(t, calls, 1)
	body := calls[0].Body.(map[string]any)
	assert.Equal(t, map[string]any{"id": "rate_1"}, body["rate"])
}

func TestShipments_Buy_RequiresRate(t *testing.T) {
	mock := client.NewMockClient()
	api := newTestAPI(mock)

	shipment := api.Shipments.Create(map[string]any{"id": "shp_1"})
	_, err := api.Shipments.Buy(context.Background(), shipment, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, resource.ErrMissingParameter)
	assert.Empty(t, mock.Calls())
}

func TestShipments_SmartRates_DoesNotMutateInstance(t *testing.T) {
	mock := client.NewMockClient()
	mock.Stub("GET", "shipments/shp_1/smartrate", 200, []byte(`{"result":[{"id":"rate_1","rate":"7.33"},{"id":"rate_2","rate":"9.22"}]}`))
	api := newTestAPI(mock)

	shipment := api.Shipments.Create(map[string]any{"id": "shp_1", "status": "unknown"})
	rates, err := api.Shipments.SmartRates(context.Background(), shipment)

	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "rate_1", rates[0]["id"])

	// The short-circuit returns the result list; the instance is untouched.
	assert.Equal(t, "unknown", shipment.GetString("status"))
	assert.Nil(t, shipment.Get("result"))
}

func TestShipments_SmartRates_EmptyResult(t *testing.T) {
	mock := client.NewMockClient()
	mock.Stub("GET", "shipments/shp_1/smartrate", 200, []byte(`{}`))
	api := newTestAPI(mock)

	shipment := api.Shipments.Create(map[string]any{"id": "shp_1"})
	rates, err := api.Shipments.SmartRates(context.Background(), shipment)

	require.NoError(t, err)
	assert.NotNil(t, rates)
	assert.Empty(t, rates)
}

func TestShipments_SmartRates_RequiresID(t *testing.T) {
	mock := client.NewMockClient()
	api := newTestAPI(mock)

	_, err := api.Shipments.SmartRates(context.Background(), api.Shipments.Create(nil))

	assert.ErrorIs(t, err, resource.ErrMissingParameter)
	assert.Empty(t, mock.Calls())
}

func TestShipments_LowestRate(t *testing.T) {
	api := newTestAPI(client.NewMockClient())

	shipment := api.Shipments.Create(map[string]any{
		"rates": []any{
			map[string]any{"id": "rate_1", "rate": "12.50"},
			map[string]any{"id": "rate_2", "rate": "7.33"},
			map[string]any{"id": "rate_3", "rate": "not-a-number"},
		},
	})

	lowest := api.Shipments.LowestRate(shipment)

	require.NotNil(t, lowest)
	assert.Equal(t, "rate_2", lowest["id"])
}

func TestShipments_LowestRate_NoRates(t *testing.T) {
	api := newTestAPI(client.NewMockClient())

	assert.Nil(t, api.Shipments.LowestRate(api.Shipments.Create(nil)))
}
