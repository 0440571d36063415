package easypost

import "encoding/json"

// Event is the payload EasyPost delivers to webhook endpoints.
type Event struct {
	ID                 string         `json:"id"`
	Object             string         `json:"object"`
	Mode               string         `json:"mode"`
	Description        string         `json:"description"`
	Status             string         `json:"status"`
	CreatedAt          string         `json:"created_at"`
	UpdatedAt          string         `json:"updated_at"`
	PreviousAttributes map[string]any `json:"previous_attributes"`
	Result             map[string]any `json:"result"`
	PendingURLs        []string       `json:"pending_urls"`
	CompletedURLs      []string       `json:"completed_urls"`
}

// parseEvent decodes a raw webhook body into an Event.
func parseEvent(rawBody []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
