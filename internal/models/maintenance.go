package models

import "time"

// Maintenance is one maintenance intervention on a lamp.
type Maintenance struct {
	ID            string    `json:"_id,omitempty"`
	LampID        string    `json:"luminaria_id,omitempty"`
	ResponsibleID string    `json:"responsable_id,omitempty"`
	Time          time.Time `json:"fecha,omitzero"`
	Status        string    `json:"estado,omitempty"`
	Type          string    `json:"tipo,omitempty"`
	PreviousID    string    `json:"mantenimiento_anterior,omitempty"`
	Notes         string    `json:"observaciones,omitempty"`
}

func (n Normalizer) Maintenance(rec Record) Maintenance {
	return Maintenance{
		ID:            rec.String("_id", "id"),
		LampID:        rec.String("luminaria_id", "luminaria", "luminaria._id"),
		ResponsibleID: rec.String("responsable_id", "responsable", "usuario_id"),
		Time:          rec.Time(n.location(), "fecha", "date", "fechaMantenimiento", "fechaRealizacion", "createdAt"),
		Status:        rec.String("estado", "status"),
		Type:          rec.String("tipo"),
		PreviousID:    rec.String("mantenimiento_anterior", "anterior_id"),
		Notes:         rec.String("observaciones", "notas", "descripcion"),
	}
}

func (n Normalizer) Maintenances(recs []Record) []Maintenance {
	out := make([]Maintenance, 0, len(recs))
	for _, rec := range recs {
		out = append(out, n.Maintenance(rec))
	}
	return out
}

// ParseMaintenance normalises a backend maintenance object, reading
// zone-less dates as UTC.
func ParseMaintenance(rec Record) Maintenance {
	return Normalizer{}.Maintenance(rec)
}
