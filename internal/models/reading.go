package models

import "time"

// Reading is one consumption measurement of a lamp.
type Reading struct {
	ID     string    `json:"_id,omitempty"`
	LampID string    `json:"luminaria_id,omitempty"`
	Time   time.Time `json:"fecha,omitzero"`
	Value  float64   `json:"valor"`
	Lumens float64   `json:"lumenes,omitempty"`
	On     *bool     `json:"encendida,omitempty"`
}

func (n Normalizer) Reading(rec Record) Reading {
	return Reading{
		ID:     rec.String("_id", "id"),
		LampID: rec.String("luminaria_id", "luminaria", "luminaria._id"),
		Time:   rec.Time(n.location(), "fecha", "date", "timestamp"),
		Value:  rec.Number("valor", "value", "consumo", "consumption"),
		Lumens: rec.Number("lumenes", "lumens"),
		On:     rec.Bool("encendida", "encendido"),
	}
}

func (n Normalizer) Readings(recs []Record) []Reading {
	out := make([]Reading, 0, len(recs))
	for _, rec := range recs {
		out = append(out, n.Reading(rec))
	}
	return out
}

// ParseReading normalises a backend consumption object, reading zone-less
// dates as UTC.
func ParseReading(rec Record) Reading {
	return Normalizer{}.Reading(rec)
}
