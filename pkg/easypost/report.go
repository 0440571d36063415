package easypost

import (
	"context"
	"net/url"

	"github.com/tournevent/easypost/pkg/client"
	"github.com/tournevent/easypost/pkg/resource"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

var reportDescriptor = &resource.Descriptor{
	Name:          "Report",
	CollectionURL: "reports",
	WrapKey:       "report",
	Validators: map[string]resource.Validator{
		"id":         resource.IDToken(),
		"object":     resource.Any(),
		"mode":       resource.OneOf("test", "production"),
		"status":     resource.Any(),
		"start_date": resource.All(resource.Required(), resource.NonEmptyString()),
		"end_date":   resource.All(resource.Required(), resource.NonEmptyString()),
		"url":        resource.Any(),
		"url_expires_at": resource.Any(),
	},
}

// ReportService provides creation and retrieval for EasyPost reports.
// Reports are addressed per subtype ("reports/shipment", "reports/tracker",
// ...) but every listing is keyed as "reports".
type ReportService struct {
	*resource.Service
	api client.Client
}

func newReportService(api client.Client, logger *otelzap.Logger) *ReportService {
	return &ReportService{
		Service: resource.NewService(reportDescriptor, api, logger),
		api:     api,
	}
}

// AllByType lists reports of one subtype.
// GET /reports/{type}
func (s *ReportService) AllByType(ctx context.Context, reportType string, query url.Values) (*resource.Collection, error) {
	return s.AllFrom(ctx, "reports/"+reportType, query)
}

// CreateReport requests generation of a report of one subtype.
// POST /reports/{type}
func (s *ReportService) CreateReport(ctx context.Context, reportType string, r *resource.Resource) (*resource.Resource, error) {
	if _, err := r.Validate(true); err != nil {
		return nil, err
	}
	resp, err := s.api.Post(ctx, "reports/"+reportType, s.WrapJSON(r.ToJSON()))
	if err != nil {
		return nil, err
	}
	created := s.Create(nil)
	if err := applyWrapped(created, resp.Body, "report"); err != nil {
		return nil, err
	}
	return created, nil
}

// RetrieveByType fetches a single report using its subtype prefix.
// GET /reports/{type}/{id}
func (s *ReportService) RetrieveByType(ctx context.Context, reportType, id string) (*resource.Resource, error) {
	return s.RetrieveFrom(ctx, "reports/"+reportType, id)
}
