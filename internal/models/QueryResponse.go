package models

import "time"

// ArchiveResponse is the body of GET /api/archive/{channel}.
type ArchiveResponse struct {
	Channel  string                 `json:"channel"`
	Readings map[string][]DataPoint `json:"readings"` // Grouped by field
}

type DataPoint struct {
	Time time.Time `json:"time"`
	// nil when a window had no usable value
	Value *float64 `json:"value"`
}
