package resource

import (
	"fmt"
	"strings"
)

// Stock validators for descriptor property declarations. Each operates
// on the instance's JSON view, so an id-reference property sees the
// reduced {"id": ...} form, not the raw stored value.

// Any accepts every value. Declaring a property with Any makes it part
// of the recognized set without constraining it.
func Any() Validator {
	return nil
}

// Required fails when the property is absent from the JSON view.
// Falsy values are omitted from the view, so Required also rejects them.
func Required() Validator {
	return func(props map[string]any, name string) error {
		if _, ok := props[name]; !ok {
			return fmt.Errorf("is required")
		}
		return nil
	}
}

// NonEmptyString fails when the property is present but not a non-empty string.
func NonEmptyString() Validator {
	return func(props map[string]any, name string) error {
		value, ok := props[name]
		if !ok {
			return nil
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("must be a string, got %T", value)
		}
		if s == "" {
			return fmt.Errorf("must not be empty")
		}
		return nil
	}
}

// OneOf fails when the property is present and not among the allowed values.
func OneOf(allowed ...string) Validator {
	return func(props map[string]any, name string) error {
		value, ok := props[name]
		if !ok {
			return nil
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("must be a string, got %T", value)
		}
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
	}
}

// IDToken fails when the property is present and does not look like a
// prefixed vendor id ("shp_...", "hook_...").
func IDToken() Validator {
	return func(props map[string]any, name string) error {
		value, ok := props[name]
		if !ok {
			return nil
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("must be an id string, got %T", value)
		}
		if !strings.Contains(s, "_") {
			return fmt.Errorf("%q is not a vendor id token", s)
		}
		return nil
	}
}

// Nested fails when the property is present and not an object. In the
// JSON view, nested resources and id references both appear as maps.
func Nested() Validator {
	return func(props map[string]any, name string) error {
		value, ok := props[name]
		if !ok {
			return nil
		}
		if _, ok := value.(map[string]any); !ok {
			return fmt.Errorf("must be an object, got %T", value)
		}
		return nil
	}
}

// All combines validators; the first failure wins.
func All(validators ...Validator) Validator {
	return func(props map[string]any, name string) error {
		for _, v := range validators {
			if v == nil {
				continue
			}
			if err := v(props, name); err != nil {
				return err
			}
		}
		return nil
	}
}
