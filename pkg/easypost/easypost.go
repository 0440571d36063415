// Package easypost provides the concrete EasyPost resource services.
// Each service pairs a static descriptor (collection URL, wrap key,
// property validators, id-reference set) with the generic resource
// layer, plus the vendor-specific operations of that type.
package easypost

import (
	"context"
	"sync"

	"github.com/tournevent/easypost/pkg/client"
	"github.com/tournevent/easypost/pkg/resource"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// API is the entry point to the SDK: one transport, one service per
// resource type.
type API struct {
	Addresses *AddressService
	Parcels   *ParcelService
	Shipments *ShipmentService
	Trackers  *TrackerService
	Webhooks  *WebhookService
	Reports   *ReportService

	logger *otelzap.Logger
}

// New creates an API over the given transport.
func New(api client.Client, logger *otelzap.Logger) *API {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	return &API{
		Addresses: newAddressService(api, logger),
		Parcels:   newParcelService(api, logger),
		Shipments: newShipmentService(api, logger),
		Trackers:  newTrackerService(api, logger),
		Webhooks:  newWebhookService(api, logger),
		Reports:   newReportService(api, logger),
		logger:    logger,
	}
}

// RetrieveShipments fetches several shipments in parallel. Failures for
// individual ids are collected rather than failing the whole batch.
func (a *API) RetrieveShipments(ctx context.Context, ids []string) ([]*resource.Resource, []error) {
	results := make([]*resource.Resource, 0, len(ids))
	errs := make([]error, 0)
	mu := &sync.Mutex{}

	g, ctx := errgroup.WithContext(ctx)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			shipment, err := a.Shipments.Retrieve(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return nil // Continue with the remaining ids
			}
			results = append(results, shipment)
			return nil
		})
	}

	g.Wait()
	return results, errs
}
