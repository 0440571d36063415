package easypost

import (
	"context"
	"net/http"

	"github.com/tournevent/easypost/pkg/client"
	"github.com/tournevent/easypost/pkg/resource"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

var addressDescriptor = &resource.Descriptor{
	Name:          "Address",
	CollectionURL: "addresses",
	WrapKey:       "address",
	Validators: map[string]resource.Validator{
		"id":           resource.IDToken(),
		"object":       resource.Any(),
		"mode":         resource.OneOf("test", "production"),
		"name":         resource.Any(),
		"company":      resource.Any(),
		"street1":      resource.NonEmptyString(),
		"street2":      resource.Any(),
		"city":         resource.Any(),
		"state":        resource.Any(),
		"zip":          resource.Any(),
		"country":      resource.Any(),
		"phone":        resource.Any(),
		"email":        resource.Any(),
		"residential":  resource.Any(),
		"verify":       resource.Any(),
		"verifications": resource.Nested(),
	},
}

// AddressService provides CRUD and verification for EasyPost addresses.
type AddressService struct {
	*resource.Service
	api client.Client
}

func newAddressService(api client.Client, logger *otelzap.Logger) *AddressService {
	return &AddressService{
		Service: resource.NewService(addressDescriptor, api, logger),
		api:     api,
	}
}

// Verify runs carrier verification on a saved address. The verified
// fields are re-mapped onto the instance.
// GET /addresses/{id}/verify
func (s *AddressService) Verify(ctx context.Context, r *resource.Resource) (*resource.Resource, error) {
	if err := s.CheckRequired(r, []string{"id"}, nil); err != nil {
		return nil, err
	}
	return s.RPC(ctx, r, http.MethodGet, "verify", nil)
}

// CreateAndVerify creates an address with verification requested in a
// single call.
// POST /addresses/create_and_verify
func (s *AddressService) CreateAndVerify(ctx context.Context, r *resource.Resource) (*resource.Resource, error) {
	if _, err := r.Validate(true); err != nil {
		return nil, err
	}
	resp, err := s.api.Post(ctx, "addresses/create_and_verify", s.WrapJSON(r.ToJSON()))
	if err != nil {
		return nil, err
	}
	created := s.Create(nil)
	if err := applyWrapped(created, resp.Body, "address"); err != nil {
		return nil, err
	}
	return created, nil
}
