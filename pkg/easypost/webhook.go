package easypost

import (
	"context"
	"net/http"

	"github.com/tournevent/easypost/pkg/client"
	"github.com/tournevent/easypost/pkg/resource"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

var webhookDescriptor = &resource.Descriptor{
	Name:          "Webhook",
	CollectionURL: "webhooks",
	WrapKey:       "webhook",
	Validators: map[string]resource.Validator{
		"id":          resource.IDToken(),
		"object":      resource.Any(),
		"mode":        resource.OneOf("test", "production"),
		"url":         resource.All(resource.Required(), resource.NonEmptyString()),
		"disabled_at": resource.Any(),
	},
}

// WebhookService provides CRUD for EasyPost webhook endpoints.
type WebhookService struct {
	*resource.Service
	api client.Client
}

func newWebhookService(api client.Client, logger *otelzap.Logger) *WebhookService {
	return &WebhookService{
		Service: resource.NewService(webhookDescriptor, api, logger),
		api:     api,
	}
}

// Update re-enables a disabled webhook. The vendor treats an empty PATCH
// on the webhook as the re-enable signal.
// PATCH /webhooks/{id}
func (s *WebhookService) Update(ctx context.Context, r *resource.Resource) (*resource.Resource, error) {
	if err := s.CheckRequired(r, []string{"id"}, nil); err != nil {
		return nil, err
	}
	return s.RPC(ctx, r, http.MethodPatch, "", nil)
}
