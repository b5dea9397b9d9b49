package cmssdk

import "time"

// Item is one remote content unit as the CMS returns it.
type Item struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Slug      string         `json:"slug"`
	Fields    map[string]any `json:"fields,omitempty"`
	Body      string         `json:"body"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ItemPayload is the write-side shape for create and update calls.
// ID is empty on create; the server assigns one.
type ItemPayload struct {
	ID     string         `json:"id,omitempty"`
	Type   string         `json:"type"`
	Slug   string         `json:"slug"`
	Fields map[string]any `json:"fields,omitempty"`
	Body   string         `json:"body"`
}

type ListResponse struct {
	Items []*Item `json:"items"`
}
