// Package event defines the telemetry event carried through the collector,
// queue and sinks. Pipeline and sinks stay generic; Event is the concrete
// element type the HTTP collector and the examples use.
package event

import (
	"encoding/json"
	"time"
)

// Event is one telemetry datum. ID and ReceivedAt are stamped by the
// collector at ingest time; Source, Type and Payload come from the producer.
type Event struct {
	ID         int64           `json:"id" bson:"id"`
	Source     string          `json:"source" bson:"source" validate:"required"`
	Type       string          `json:"type" bson:"type" validate:"required"`
	Payload    json.RawMessage `json:"payload,omitempty" bson:"payload,omitempty"`
	ReceivedAt time.Time       `json:"received_at" bson:"received_at"`
}
