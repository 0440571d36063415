// Package resource implements the generic mapping layer between local
// objects and the EasyPost REST API: per-type descriptors, property
// validation, and the JSON wrapping conventions the vendor expects.
package resource

import (
	"strings"
)

// Validator checks a single declared property against the instance's
// current JSON view. A nil validator accepts any value.
type Validator func(props map[string]any, name string) error

// Descriptor is the static metadata defining a resource type's wire
// contract. One Descriptor exists per concrete type, not per instance.
type Descriptor struct {
	// Name identifies the type in error messages (e.g., "Shipment").
	Name string

	// CollectionURL is the API collection path (e.g., "shipments").
	// It doubles as the key the vendor uses when returning a list.
	CollectionURL string

	// WrapKey is the JSON envelope key used when sending the object
	// (e.g., {"shipment": {...}}).
	WrapKey string

	// Validators maps every recognized property to its validator.
	// The key set is the recognized-property set: ToJSON emits
	// nothing outside it.
	Validators map[string]Validator

	// IDReferences lists properties serialized as {"id": ...}
	// references rather than full nested objects.
	IDReferences []string
}

func (d *Descriptor) isIDReference(name string) bool {
	for _, ref := range d.IDReferences {
		if ref == name {
			return true
		}
	}
	return false
}

// JSONConvertible is implemented by values that know how to produce
// their own serializable view. Nested resources satisfy it.
type JSONConvertible interface {
	ToJSON() map[string]any
}

// Resource is a local object mirroring a vendor API entity. Properties
// live in an explicit map populated by Apply, so a remote field can
// never collide with a method name.
type Resource struct {
	desc     *Descriptor
	props    map[string]any
	failures map[string]string
}

// New creates an empty Resource for the given descriptor.
func New(desc *Descriptor) *Resource {
	return &Resource{
		desc:  desc,
		props: make(map[string]any),
	}
}

// Apply copies every key of data onto the instance. This is the explicit
// deserialization step: undeclared keys remain readable via Get but are
// filtered out of ToJSON.
func (r *Resource) Apply(data map[string]any) *Resource {
	for k, v := range data {
		r.props[k] = v
	}
	return r
}

// Descriptor returns the static metadata for this resource's type.
func (r *Resource) Descriptor() *Descriptor {
	return r.desc
}

// ID returns the vendor id of this resource, or "" when unsaved.
func (r *Resource) ID() string {
	id, _ := r.props["id"].(string)
	return id
}

// Get returns the raw value of a property.
func (r *Resource) Get(name string) any {
	return r.props[name]
}

// GetString returns a property as a string, or "" when absent or not a string.
func (r *Resource) GetString(name string) string {
	s, _ := r.props[name].(string)
	return s
}

// Set assigns a property value.
func (r *Resource) Set(name string, value any) {
	r.props[name] = value
}

// Unset removes a property.
func (r *Resource) Unset(name string) {
	delete(r.props, name)
}

// ToJSON produces the serializable view of the instance. Only properties
// declared in the descriptor's recognized set appear; absent and falsy
// values are omitted; id-reference properties are reduced to {"id": ...}.
func (r *Resource) ToJSON() map[string]any {
	out := make(map[string]any, len(r.desc.Validators))
	for name := range r.desc.Validators {
		value, ok := r.props[name]
		if !ok || isFalsy(value) {
			continue
		}

		if r.desc.isIDReference(name) {
			if ref, reduced := reduceToIDReference(value); reduced {
				out[name] = ref
				continue
			}
		}

		if nested, ok := value.(JSONConvertible); ok {
			out[name] = nested.ToJSON()
			continue
		}

		out[name] = value
	}
	return out
}

// reduceToIDReference turns a nested resource carrying an id, or a bare
// vendor id token, into an {"id": ...} reference. Vendor ids are prefixed
// tokens like "shp_..." or "hook_...", hence the underscore check.
func reduceToIDReference(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case *Resource:
		if id := v.ID(); id != "" {
			return map[string]any{"id": id}, true
		}
	case map[string]any:
		if id, ok := v["id"].(string); ok && id != "" {
			return map[string]any{"id": id}, true
		}
	case string:
		if strings.Contains(v, "_") {
			return map[string]any{"id": v}, true
		}
	}
	return nil, false
}

// isFalsy reports whether a property value is omitted from serialization,
// mirroring the vendor's JSON semantics for empty fields.
func isFalsy(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case int:
		return v == 0
	case int64:
		return v == 0
	case float64:
		return v == 0
	}
	return false
}

// Validate runs every declared validator against the current JSON view.
// Prior failure state is cleared first. The returned map contains exactly
// the failing property names, or nil when the instance is valid. When
// strict is true and any property fails, the error is a *ValidationError
// carrying the same map and the resource's type name.
func (r *Resource) Validate(strict bool) (map[string]string, error) {
	r.failures = nil

	view := r.ToJSON()
	var failures map[string]string
	for name, validate := range r.desc.Validators {
		if validate == nil {
			continue
		}
		if err := validate(view, name); err != nil {
			if failures == nil {
				failures = make(map[string]string)
			}
			failures[name] = err.Error()
		}
	}

	r.failures = failures
	if strict && len(failures) > 0 {
		return failures, &ValidationError{Resource: r.desc.Name, Fields: failures}
	}
	return failures, nil
}

// ValidationErrors returns the failure map from the last Validate call,
// or nil when the instance was valid. Mutations after Validate are not
// reflected until the next call.
func (r *Resource) ValidationErrors() map[string]string {
	return r.failures
}

// Ensure Resource can serve as a nested value of another resource.
var _ JSONConvertible = (*Resource)(nil)
