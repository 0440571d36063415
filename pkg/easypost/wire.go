package easypost

import (
	"encoding/json"
	"fmt"

	"github.com/tournevent/easypost/pkg/resource"
)

// applyWrapped maps a response body onto r, unwrapping a single-key
// envelope when present. Some vendor endpoints echo the write envelope
// back instead of returning the bare object.
func applyWrapped(r *resource.Resource, body []byte, key string) error {
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if inner, ok := decoded[key].(map[string]any); ok {
		r.Apply(inner)
		return nil
	}
	r.Apply(decoded)
	return nil
}
