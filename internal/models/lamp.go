package models

import (
	"strings"
	"time"
)

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Lamp is a streetlight as the dashboard sees it.
type Lamp struct {
	ID          string       `json:"_id"`
	Identifier  string       `json:"identificador,omitempty"`
	State       string       `json:"estado,omitempty"`
	City        string       `json:"ciudad,omitempty"`
	Location    string       `json:"ubicacion,omitempty"`
	Region      string       `json:"region,omitempty"`
	Country     string       `json:"pais,omitempty"`
	Active      *bool        `json:"activo,omitempty"`
	InstalledAt time.Time    `json:"fecha_instalacion,omitzero"`
	Coordinates *Coordinates `json:"coordenadas,omitempty"`
	Type        string       `json:"tipo_luminaria"`
}

// IsActive reports the explicit active flag, false when unknown.
func (l Lamp) IsActive() bool {
	return l.Active != nil && *l.Active
}

func (n Normalizer) Lamp(rec Record) Lamp {
	lamp := Lamp{
		ID:          rec.String("_id", "id"),
		Identifier:  rec.String("identificador", "codigo"),
		State:       rec.String("estado", "state"),
		City:        rec.String("ciudad", "city", "ubicacion.ciudad"),
		Region:      rec.String("region", "ubicacion.region"),
		Country:     rec.String("pais", "ubicacion.pais"),
		Active:      rec.Bool("activo"),
		InstalledAt: rec.Time(n.location(), "fecha_instalacion", "fechaInstalacion", "fechaCreacion", "createdAt"),
		Type:        rec.String("tipo_luminaria", "tipo"),
	}
	for _, key := range []string{"ubicacion", "location"} {
		if loc, ok := rec[key].(string); ok && strings.TrimSpace(loc) != "" {
			lamp.Location = strings.TrimSpace(loc)
			break
		}
	}
	if lamp.Type == "" {
		lamp.Type = "LED"
	}

	lat := rec.Number("coordenadas.lat", "lat", "latitud")
	lng := rec.Number("coordenadas.lng", "lng", "longitud")
	if lat != 0 && lng != 0 && lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180 {
		lamp.Coordinates = &Coordinates{Lat: lat, Lng: lng}
	}
	return lamp
}

func (n Normalizer) Lamps(recs []Record) []Lamp {
	out := make([]Lamp, 0, len(recs))
	for _, rec := range recs {
		out = append(out, n.Lamp(rec))
	}
	return out
}

// ParseLamp normalises a backend lamp object, reading zone-less dates as UTC.
func ParseLamp(rec Record) Lamp {
	return Normalizer{}.Lamp(rec)
}
