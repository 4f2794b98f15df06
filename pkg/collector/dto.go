package collector

import "encoding/json"

// EventRequest is the ingest DTO for one telemetry event.
type EventRequest struct {
	Source  string          `json:"source" validate:"required"`
	Type    string          `json:"type" validate:"required"`
	Payload json.RawMessage `json:"payload"`
}

// BatchRequest carries up to 1000 events in one call.
type BatchRequest struct {
	Events []EventRequest `json:"events" validate:"required,min=1,max=1000,dive"`
}

// EventResponse returns the ID stamped at ingest.
type EventResponse struct {
	ID int64 `json:"id"`
}

// BatchResponse returns the stamped IDs in request order.
type BatchResponse struct {
	IDs []int64 `json:"ids"`
}

// StatsResponse mirrors the queue's Stats snapshot with wire names.
type StatsResponse struct {
	Depth        int    `json:"depth"`
	Capacity     int    `json:"capacity"`
	Pushed       uint64 `json:"pushed"`
	Popped       uint64 `json:"popped"`
	Dropped      uint64 `json:"dropped"`
	ExpiredWaits uint64 `json:"expired_waits"`
}
