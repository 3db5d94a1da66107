package models

import "time"

// Normalizer maps loose backend records to the dashboard's typed entities.
// Every field fallback lives in its per-entity method, so nothing past this
// point needs to know about alternative key names.
type Normalizer struct {
	// Location used for timestamps that carry no zone. UTC when nil.
	Location *time.Location
}

func (n Normalizer) location() *time.Location {
	if n.Location == nil {
		return time.UTC
	}
	return n.Location
}
