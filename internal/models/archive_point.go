package models

import "time"

// ArchivePoint is one channel entry as written to the archive.
type ArchivePoint struct {
	Channel string
	Time    time.Time
	Fields  map[string]float64
}
