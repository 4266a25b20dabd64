package models

// ArchiveQuery selects archived readings of one channel.
type ArchiveQuery struct {
	Channel        string   `json:"channel"`
	Fields         []string `json:"fields"`
	TimeRangeStart string   `json:"start"`  // Flux duration, e.g. "-24h"
	WindowPeriod   string   `json:"window"` // Flux duration, e.g. "1h"
}
