package easypost

import (
	"context"

	"github.com/tournevent/easypost/pkg/client"
	"github.com/tournevent/easypost/pkg/resource"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

var parcelDescriptor = &resource.Descriptor{
	Name:          "Parcel",
	CollectionURL: "parcels",
	WrapKey:       "parcel",
	Validators: map[string]resource.Validator{
		"id":                resource.IDToken(),
		"object":            resource.Any(),
		"mode":              resource.OneOf("test", "production"),
		"length":            resource.Any(),
		"width":             resource.Any(),
		"height":            resource.Any(),
		"weight":            resource.Required(),
		"predefined_package": resource.Any(),
	},
}

// ParcelService provides creation and retrieval for EasyPost parcels.
// Parcels are immutable once created: update and delete are not part of
// the vendor API.
type ParcelService struct {
	*resource.Service
}

func newParcelService(api client.Client, logger *otelzap.Logger) *ParcelService {
	return &ParcelService{
		Service: resource.NewService(parcelDescriptor, api, logger),
	}
}

// Update is intentionally unsupported for parcels.
func (s *ParcelService) Update(ctx context.Context, r *resource.Resource) error {
	return s.NotImplemented("Update")
}

// Delete is intentionally unsupported for parcels.
func (s *ParcelService) Delete(ctx context.Context, id string) error {
	return s.NotImplemented("Delete")
}
