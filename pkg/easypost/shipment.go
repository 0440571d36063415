package easypost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tournevent/easypost/pkg/client"
	"github.com/tournevent/easypost/pkg/resource"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

var shipmentDescriptor = &resource.Descriptor{
	Name:          "Shipment",
	CollectionURL: "shipments",
	WrapKey:       "shipment",
	Validators: map[string]resource.Validator{
		"id":              resource.IDToken(),
		"object":          resource.Any(),
		"mode":            resource.OneOf("test", "production"),
		"reference":       resource.Any(),
		"to_address":      resource.All(resource.Required(), resource.Nested()),
		"from_address":    resource.All(resource.Required(), resource.Nested()),
		"return_address":  resource.Nested(),
		"buyer_address":   resource.Nested(),
		"parcel":          resource.All(resource.Required(), resource.Nested()),
		"customs_info":    resource.Nested(),
		"rates":           resource.Any(),
		"selected_rate":   resource.Nested(),
		"postage_label":   resource.Nested(),
		"tracking_code":   resource.Any(),
		"insurance":       resource.Any(),
		"status":          resource.Any(),
		"options":         resource.Any(),
		"is_return":       resource.Any(),
		"carrier_accounts": resource.Any(),
	},
	IDReferences: []string{"to_address", "from_address", "return_address", "buyer_address", "parcel", "customs_info"},
}

// ShipmentService provides CRUD and purchase operations for EasyPost
// shipments.
type ShipmentService struct {
	*resource.Service
	api client.Client
}

func newShipmentService(api client.Client, logger *otelzap.Logger) *ShipmentService {
	return &ShipmentService{
		Service: resource.NewService(shipmentDescriptor, api, logger),
		api:     api,
	}
}

// Buy purchases a rate for the shipment.
// POST /shipments/{id}/buy
func (s *ShipmentService) Buy(ctx context.Context, r *resource.Resource, rateID string) (*resource.Resource, error) {
	if err := s.CheckRequired(r, []string{"id"}, map[string]any{"rate": rateID}); err != nil {
		return nil, err
	}
	body := map[string]any{"rate": map[string]any{"id": rateID}}
	return s.RPC(ctx, r, http.MethodPost, "buy", body)
}

// Label re-renders the postage label in another format.
// GET /shipments/{id}/label?file_format={format}
func (s *ShipmentService) Label(ctx context.Context, r *resource.Resource, format string) (*resource.Resource, error) {
	if err := s.CheckRequired(r, []string{"id"}, map[string]any{"format": format}); err != nil {
		return nil, err
	}
	return s.RPC(ctx, r, http.MethodGet, "label?file_format="+format, nil)
}

// Insure purchases insurance for the shipment.
// POST /shipments/{id}/insure
func (s *ShipmentService) Insure(ctx context.Context, r *resource.Resource, amount string) (*resource.Resource, error) {
	if err := s.CheckRequired(r, []string{"id"}, map[string]any{"amount": amount}); err != nil {
		return nil, err
	}
	return s.RPC(ctx, r, http.MethodPost, "insure", map[string]any{"amount": amount})
}

// RequestRefund asks the carrier to refund the purchased postage.
// POST /shipments/{id}/refund
func (s *ShipmentService) RequestRefund(ctx context.Context, r *resource.Resource) (*resource.Resource, error) {
	if err := s.CheckRequired(r, []string{"id"}, nil); err != nil {
		return nil, err
	}
	return s.RPC(ctx, r, http.MethodPost, "refund", nil)
}

// SmartRates fetches time-in-transit rates for the shipment. Unlike the
// generic RPC path, the result list is returned directly and the
// instance is left untouched; a shipment without smart rates yields an
// empty list.
// GET /shipments/{id}/smartrate
func (s *ShipmentService) SmartRates(ctx context.Context, r *resource.Resource) ([]map[string]any, error) {
	if err := s.CheckRequired(r, []string{"id"}, nil); err != nil {
		return nil, err
	}

	resp, err := s.api.Get(ctx, "shipments/"+r.ID()+"/smartrate", nil)
	if err != nil {
		return nil, err
	}

	var body struct {
		Result []map[string]any `json:"result"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("failed to decode smartrate response: %w", err)
	}
	if body.Result == nil {
		return []map[string]any{}, nil
	}
	return body.Result, nil
}

// LowestRate returns the cheapest rate currently attached to the
// shipment, or nil when no rates are present.
func (s *ShipmentService) LowestRate(r *resource.Resource) map[string]any {
	rates, _ := r.Get("rates").([]any)

	var lowest map[string]any
	var lowestValue float64
	for _, raw := range rates {
		rate, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		value, err := rateValue(rate)
		if err != nil {
			continue
		}
		if lowest == nil || value < lowestValue {
			lowest = rate
			lowestValue = value
		}
	}
	return lowest
}

// rateValue parses the string-encoded rate amount the vendor returns.
func rateValue(rate map[string]any) (float64, error) {
	raw, _ := rate["rate"].(string)
	var value float64
	if _, err := fmt.Sscanf(raw, "%f", &value); err != nil {
		return 0, fmt.Errorf("unparseable rate %q: %w", raw, err)
	}
	return value, nil
}
