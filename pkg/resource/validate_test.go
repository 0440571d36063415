package resource_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tournevent/easypost/pkg/resource"
)

func TestValidators(t *testing.T) {
	props := map[string]any{
		"name":   "box",
		"mode":   "test",
		"parent": map[string]any{"id": "obj_1"},
		"token":  "widget_1",
		"number": float64(3),
	}

	t.Run("required", func(t *testing.T) {
		assert.NoError(t, resource.Required()(props, "name"))
		assert.Error(t, resource.Required()(props, "missing"))
	})

	t.Run("non-empty string", func(t *testing.T) {
		assert.NoError(t, resource.NonEmptyString()(props, "name"))
		assert.NoError(t, resource.NonEmptyString()(props, "missing"))
		assert.Error(t, resource.NonEmptyString()(props, "number"))
	})

	t.Run("one of", func(t *testing.T) {
		assert.NoError(t, resource.OneOf("test", "production")(props, "mode"))
		assert.Error(t, resource.OneOf("production")(props, "mode"))
		assert.NoError(t, resource.OneOf("production")(props, "missing"))
	})

	t.Run("id token", func(t *testing.T) {
		assert.NoError(t, resource.IDToken()(props, "token"))
		assert.Error(t, resource.IDToken()(props, "name"))
		assert.Error(t, resource.IDToken()(props, "number"))
	})

	t.Run("nested", func(t *testing.T) {
		assert.NoError(t, resource.Nested()(props, "parent"))
		assert.Error(t, resource.Nested()(props, "name"))
	})

	t.Run("all", func(t *testing.T) {
		combined := resource.All(resource.Required(), resource.NonEmptyString())
		assert.NoError(t, combined(props, "name"))
		assert.Error(t, combined(props, "missing"))
	})

	t.Run("any is nil", func(t *testing.T) {
		assert.Nil(t, resource.Any())
	})
}
