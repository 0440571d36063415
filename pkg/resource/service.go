package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tournevent/easypost/pkg/client"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Service provides CRUD mapping for one resource type. It holds the
// injected transport and the type's Descriptor; Resource instances
// carry no behavior beyond (de)serialization and validation.
type Service struct {
	desc   *Descriptor
	api    client.Client
	logger *otelzap.Logger
}

// NewService creates a Service for the given descriptor and transport.
func NewService(desc *Descriptor, api client.Client, logger *otelzap.Logger) *Service {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	return &Service{desc: desc, api: api, logger: logger}
}

// Descriptor returns the type metadata this service operates on.
func (s *Service) Descriptor() *Descriptor {
	return s.desc
}

// Collection is the result of a list fetch: the resulting instances
// keyed by the request URL's resource name, plus the vendor's
// pagination flag.
type Collection struct {
	Key     string
	Items   []*Resource
	HasMore bool
}

// Create builds a local instance from raw data. It performs no network
// call; fetch operations use it to map response records.
func (s *Service) Create(data map[string]any) *Resource {
	return New(s.desc).Apply(data)
}

// Retrieve fetches a single resource by id from the collection URL.
func (s *Service) Retrieve(ctx context.Context, id string) (*Resource, error) {
	return s.RetrieveFrom(ctx, s.desc.CollectionURL, id)
}

// RetrieveFrom fetches a single resource by id from an alternate URL prefix.
func (s *Service) RetrieveFrom(ctx context.Context, urlPrefix, id string) (*Resource, error) {
	resp, err := s.api.Get(ctx, urlPrefix+"/"+id, nil)
	if err != nil {
		return nil, err
	}
	r := New(s.desc)
	if err := s.applyBody(r, resp.Body); err != nil {
		return nil, err
	}
	return r, nil
}

// Refresh re-fetches the resource by its own id and copies every
// resulting property onto r.
//
// Deprecated: use Retrieve and replace the instance instead.
func (s *Service) Refresh(ctx context.Context, r *Resource) (*Resource, error) {
	if r.ID() == "" {
		return nil, &MissingParameterError{Resource: s.desc.Name, Parameter: "id"}
	}
	fetched, err := s.Retrieve(ctx, r.ID())
	if err != nil {
		return nil, err
	}
	return r.Apply(fetched.props), nil
}

// All fetches the resource collection with optional query parameters.
func (s *Service) All(ctx context.Context, query url.Values) (*Collection, error) {
	return s.AllFrom(ctx, s.desc.CollectionURL, query)
}

// AllFrom fetches a collection from an alternate URL. Any URL containing
// "reports" is keyed as "reports" regardless of the report subtype.
func (s *Service) AllFrom(ctx context.Context, requestURL string, query url.Values) (*Collection, error) {
	resp, err := s.api.Get(ctx, requestURL, query)
	if err != nil {
		return nil, err
	}

	var body any
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("failed to decode %s list response: %w", s.desc.Name, err)
	}

	records := s.UnwrapAll(body)
	items := make([]*Resource, 0, len(records))
	for _, record := range records {
		props, ok := record.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, s.Create(props))
	}

	key := requestURL
	if strings.Contains(requestURL, "reports") {
		key = "reports"
	}

	hasMore := false
	if m, ok := body.(map[string]any); ok {
		hasMore, _ = m["has_more"].(bool)
	}

	s.logger.Debug("Fetched collection",
		zap.String("resource", s.desc.Name),
		zap.String("key", key),
		zap.Int("count", len(items)),
		zap.Bool("has_more", hasMore),
	)

	return &Collection{Key: key, Items: items, HasMore: hasMore}, nil
}

// Save validates the instance, wraps its JSON view under the descriptor's
// wrap key, then issues PATCH {url}/{id} for saved instances or POST {url}
// for new ones. The response is re-mapped onto r.
func (s *Service) Save(ctx context.Context, r *Resource) (*Resource, error) {
	if _, err := r.Validate(true); err != nil {
		return nil, err
	}

	payload := s.WrapJSON(r.ToJSON())

	var (
		resp *client.Response
		err  error
	)
	if id := r.ID(); id != "" {
		resp, err = s.api.Patch(ctx, s.desc.CollectionURL+"/"+id, payload)
	} else {
		resp, err = s.api.Post(ctx, s.desc.CollectionURL, payload)
	}
	if err != nil {
		s.logger.Error("Save failed",
			zap.String("resource", s.desc.Name),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.applyBody(r, resp.Body); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes a resource by id. An empty id fails before any
// network call is attempted.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &MissingParameterError{Resource: s.desc.Name, Parameter: "id"}
	}
	_, err := s.api.Del(ctx, s.desc.CollectionURL+"/"+id)
	return err
}

// DeleteResource removes the resource using its own id.
func (s *Service) DeleteResource(ctx context.Context, r *Resource) error {
	return s.Delete(ctx, r.ID())
}

// RPC issues a vendor operation against {collectionURL}/{id}/{path} and
// re-maps the response onto r. An empty method defaults to POST.
// Transport failures propagate unchanged.
func (s *Service) RPC(ctx context.Context, r *Resource, method, path string, body any) (*Resource, error) {
	return s.RPCAt(ctx, r, s.desc.CollectionURL, method, path, body)
}

// RPCAt is RPC with an explicit URL prefix in place of the collection URL.
func (s *Service) RPCAt(ctx context.Context, r *Resource, pathPrefix, method, path string, body any) (*Resource, error) {
	if method == "" {
		method = http.MethodPost
	}

	target := pathPrefix + "/" + r.ID()
	if path != "" {
		target += "/" + path
	}

	var (
		resp *client.Response
		err  error
	)
	switch method {
	case http.MethodGet:
		resp, err = s.api.Get(ctx, target, nil)
	case http.MethodPost:
		resp, err = s.api.Post(ctx, target, body)
	case http.MethodPatch:
		resp, err = s.api.Patch(ctx, target, body)
	case http.MethodDelete:
		resp, err = s.api.Del(ctx, target)
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}
	if err != nil {
		return nil, err
	}

	if err := s.applyBody(r, resp.Body); err != nil {
		return nil, err
	}
	return r, nil
}

// CheckRequired verifies preflight requirements before a vendor call:
// every named instance property and every named argument value must be
// set and non-falsy.
func (s *Service) CheckRequired(r *Resource, props []string, args map[string]any) error {
	for _, name := range props {
		if r == nil || isFalsy(r.Get(name)) {
			return &MissingParameterError{Resource: s.desc.Name, Parameter: name}
		}
	}
	for name, value := range args {
		if isFalsy(value) {
			return &MissingParameterError{Resource: s.desc.Name, Parameter: name}
		}
	}
	return nil
}

// NotImplemented returns the error signaling that the named operation is
// intentionally unsupported for this resource type.
func (s *Service) NotImplemented(operation string) error {
	return &NotImplementedError{Operation: operation, CollectionURL: s.desc.CollectionURL}
}

// UnwrapAll extracts the record sequence from a decoded list response:
// a bare array is returned verbatim, otherwise the sequence is found
// under the key equal to the descriptor's collection URL.
func (s *Service) UnwrapAll(data any) []any {
	switch v := data.(type) {
	case []any:
		return v
	case map[string]any:
		if records, ok := v[s.desc.CollectionURL].([]any); ok {
			return records
		}
	}
	return nil
}

// WrapJSON wraps a serialized view in the single-key envelope the vendor
// API expects on write operations.
func (s *Service) WrapJSON(view map[string]any) map[string]any {
	return map[string]any{s.desc.WrapKey: view}
}

// applyBody decodes a response body and maps it onto r.
func (s *Service) applyBody(r *Resource, body []byte) error {
	var props map[string]any
	if err := json.Unmarshal(body, &props); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", s.desc.Name, err)
	}
	r.Apply(props)
	return nil
}
