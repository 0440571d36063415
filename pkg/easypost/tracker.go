package easypost

import (
	"context"

	"github.com/tournevent/easypost/pkg/client"
	"github.com/tournevent/easypost/pkg/resource"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

var trackerDescriptor = &resource.Descriptor{
	Name:          "Tracker",
	CollectionURL: "trackers",
	WrapKey:       "tracker",
	Validators: map[string]resource.Validator{
		"id":               resource.IDToken(),
		"object":           resource.Any(),
		"mode":             resource.OneOf("test", "production"),
		"tracking_code":    resource.All(resource.Required(), resource.NonEmptyString()),
		"carrier":          resource.Any(),
		"status":           resource.Any(),
		"tracking_details": resource.Any(),
		"est_delivery_date": resource.Any(),
		"public_url":       resource.Any(),
	},
}

// TrackerService provides creation and retrieval for EasyPost trackers.
// Trackers are created once and updated by the carrier feed: local update
// and delete are not part of the vendor API.
type TrackerService struct {
	*resource.Service
}

func newTrackerService(api client.Client, logger *otelzap.Logger) *TrackerService {
	return &TrackerService{
		Service: resource.NewService(trackerDescriptor, api, logger),
	}
}

// Update is intentionally unsupported for trackers.
func (s *TrackerService) Update(ctx context.Context, r *resource.Resource) error {
	return s.NotImplemented("Update")
}

// Delete is intentionally unsupported for trackers.
func (s *TrackerService) Delete(ctx context.Context, id string) error {
	return s.NotImplemented("Delete")
}
