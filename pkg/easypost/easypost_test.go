package easypost_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/easypost/pkg/client"
	"github.com/tournevent/easypost/pkg/resource"
)

func TestAPI_RetrieveShipments_FanOut(t *testing.T) {
	mock := client.NewMockClient()
	mock.Stub("GET", "shipments/shp_1", 200, []byte(`{"id":"shp_1"}`))
	mock.Stub("GET", "shipments/shp_2", 200, []byte(`{"id":"shp_2"}`))
	api := newTestAPI(mock)

	results, errs := api.RetrieveShipments(context.Background(), []string{"shp_1", "shp_2", "shp_missing"})

	// The unknown id fails alone; the other two come back.
	assert.Len(t, errs, 1)
	require.Len(t, results, 2)
	ids := []string{results[0].ID(), results[1].ID()}
	assert.ElementsMatch(t, []string{"shp_1", "shp_2"}, ids)
}

func TestAddresses_Verify(t *testing.T) {
	mock := client.NewMockClient()
	mock.Stub("GET", "addresses/adr_1/verify", 200, []byte(`{"id":"adr_1","street1":"417 Montgomery St","verifications":{"delivery":{"success":true}}}`))
	api := newTestAPI(mock)

	address := api.Addresses.Create(map[string]any{"id": "adr_1", "street1": "417 montgomery st"})
	_, err := api.Addresses.Verify(context.Background(), address)

	require.NoError(t, err)
	assert.Equal(t, "417 Montgomery St", address.GetString("street1"))
}

func TestAddresses_Verify_RequiresID(t *testing.T) {
	api := newTestAPI(client.NewMockClient())

	_, err := api.Addresses.Verify(context.Background(), api.Addresses.Create(nil))

	assert.ErrorIs(t, err, resource.ErrMissingParameter)
}

func TestAddresses_CreateAndVerify_UnwrapsEnvelope(t *testing.T) {
	mock := client.NewMockClient()
	mock.Stub("POST", "addresses/create_and_verify", 201, []byte(`{"address":{"id":"adr_1","street1":"417 Montgomery St"}}`))
	api := newTestAPI(mock)

	address := api.Addresses.Create(map[string]any{"street1": "417 montgomery st"})
	created, err := api.Addresses.CreateAndVerify(context.Background(), address)

	require.NoError(t, err)
	assert.Equal(t, "adr_1", created.ID())
	// The input instance is the template; the result is a fresh instance.
	assert.Empty(t, address.ID())
}

func TestParcels_UpdateAndDeleteNotImplemented(t *testing.T) {
	api := newTestAPI(client.NewMockClient())

	var notImpl *resource.NotImplementedError

	err := api.Parcels.Update(context.Background(), api.Parcels.Create(nil))
	require.ErrorAs(t, err, &notImpl)
	assert.Equal(t, "parcels", notImpl.CollectionURL)

	err = api.Parcels.Delete(context.Background(), "prc_1")
	require.ErrorAs(t, err, &notImpl)
}

func TestTrackers_UpdateAndDeleteNotImplemented(t *testing.T) {
	api := newTestAPI(client.NewMockClient())

	var notImpl *resource.NotImplementedError

	err := api.Trackers.Update(context.Background(), api.Trackers.Create(nil))
	require.ErrorAs(t, err, &notImpl)

	err = api.Trackers.Delete(context.Background(), "trk_1")
	require.ErrorAs(t, err, &notImpl)
	assert.Equal(t, "trackers", notImpl.CollectionURL)
}

func TestTrackers_Save_RequiresTrackingCode(t *testing.T) {
	mock := client.NewMockClient()
	api := newTestAPI(mock)

	_, err := api.Trackers.Save(context.Background(), api.Trackers.Create(nil))

	var valErr *resource.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "tracking_code")
	assert.Empty(t, mock.Calls())
}
