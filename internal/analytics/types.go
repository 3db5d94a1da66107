package analytics

import (
	"math"
	"time"

	"EUrbana.dashboard/internal/models"
)

// Slice is one pie or bar entry.
type Slice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color,omitempty"`
}

// Point is one line chart sample.
type Point struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// DaySeries holds the hourly points of one calendar day.
type DaySeries struct {
	ID   string  `json:"id"`
	Data []Point `json:"data"`
}

// MonthRow counts maintenance records of one month per status.
type MonthRow struct {
	Month     string `json:"mes"`
	Completed int    `json:"completados"`
	Pending   int    `json:"pendientes"`
	Scheduled int    `json:"programados"`
}

type HeatCell struct {
	X string `json:"x"`
	Y int    `json:"y"`
}

// HeatRow is one weekday of the maintenance heatmap.
type HeatRow struct {
	ID   string     `json:"id"`
	Data []HeatCell `json:"data"`
}

type Summary struct {
	TotalLamps         int     `json:"totalLuminarias"`
	ActiveLamps        int     `json:"luminariasActivas"`
	ActivePercentage   float64 `json:"porcentajeActivas"`
	TotalUsers         int     `json:"totalUsuarios"`
	PendingMaintenance int     `json:"mantenimientosPendientes"`
	TotalReadings      int     `json:"totalConsumos"`
	AverageConsumption float64 `json:"consumoPromedio"`
}

// Marker is one lamp drawn on the map.
type Marker struct {
	ID         string             `json:"id"`
	Identifier string             `json:"identificador,omitempty"`
	Position   models.Coordinates `json:"position"`
	Condition  LampCondition      `json:"condicion"`
	Color      string             `json:"color"`
	Label      string             `json:"label"`
	Type       string             `json:"tipo"`
	Country    string             `json:"pais"`
}

type Bounds struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

// MapView is the initial map viewport plus its markers.
type MapView struct {
	Center    models.Coordinates `json:"center"`
	Zoom      int                `json:"zoom"`
	Bounds    *Bounds            `json:"bounds,omitempty"`
	AreaKm2   float64            `json:"areaKm2"`
	Markers   []Marker           `json:"markers"`
	LampCount int                `json:"total"`
}

// Activity is one entry of the recent activity feed.
type Activity struct {
	ID          string    `json:"id"`
	Kind        string    `json:"tipo"`
	Title       string    `json:"titulo"`
	Description string    `json:"descripcion"`
	Time        time.Time `json:"timestamp"`
	Age         string    `json:"hace"`
}

// LampQuery filters the lamp table. Empty fields match everything.
type LampQuery struct {
	Search string
	City   string
	State  string
	Page   int
}

// LampPage is one page of the filtered lamp table.
type LampPage struct {
	Items  []models.Lamp `json:"items"`
	Page   int           `json:"page"`
	Pages  int           `json:"pages"`
	Total  int           `json:"total"`
	Cities []string      `json:"ciudades"`
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
