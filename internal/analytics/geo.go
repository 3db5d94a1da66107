package analytics

import (
	"fmt"
	"math"

	"EUrbana.dashboard/internal/models"
)

// zoomSteps maps the largest coordinate span (degrees) to a map zoom level.
var zoomSteps = []struct {
	below float64
	zoom  int
}{
	{0.001, 18},
	{0.005, 16},
	{0.01, 15},
	{0.05, 13},
	{0.1, 11},
}

const farZoom = 9

// squared degrees to km², about 110 km per degree
const degreeAreaKm2 = 12100

// ZoomFor returns the zoom level fitting a coordinate span.
func ZoomFor(span float64) int {
	for _, s := range zoomSteps {
		if span < s.below {
			return s.zoom
		}
	}
	return farZoom
}

// Center returns the density-weighted centre and zoom for points. Up to five
// points use the plain centroid. More points are floored into GridSize cells
// and the centroid of the most populated cell wins (first-seen on ties).
func (p *Pipeline) Center(points []models.Coordinates) (models.Coordinates, int) {
	switch len(points) {
	case 0:
		return p.cfg.DefaultCenter, p.cfg.DefaultZoom
	case 1:
		return points[0], zoomSteps[0].zoom
	}

	b := boundsOf(points)
	zoom := ZoomFor(math.Max(b.MaxLat-b.MinLat, b.MaxLng-b.MinLng))
	if len(points) <= 5 {
		return centroid(points), zoom
	}

	type cell struct{ lat, lng int64 }
	var order []cell
	members := make(map[cell][]models.Coordinates)
	for _, pt := range points {
		c := cell{
			lat: int64(math.Floor(pt.Lat / p.cfg.GridSize)),
			lng: int64(math.Floor(pt.Lng / p.cfg.GridSize)),
		}
		if _, ok := members[c]; !ok {
			order = append(order, c)
		}
		members[c] = append(members[c], pt)
	}
	best := order[0]
	for _, c := range order[1:] {
		if len(members[c]) > len(members[best]) {
			best = c
		}
	}
	return centroid(members[best]), zoom
}

// MapView builds the initial viewport, markers and covered area for the
// lamps that carry coordinates.
func (p *Pipeline) MapView(lamps []models.Lamp) MapView {
	points := make([]models.Coordinates, 0, len(lamps))
	markers := make([]Marker, 0, len(lamps))
	for _, l := range lamps {
		if l.Coordinates == nil {
			continue
		}
		points = append(points, *l.Coordinates)
		markers = append(markers, p.marker(l))
	}

	center, zoom := p.Center(points)
	view := MapView{Center: center, Zoom: zoom, Markers: markers, LampCount: len(points)}
	if len(points) > 0 {
		b := boundsOf(points)
		view.Bounds = &b
	}
	if len(points) > 1 {
		b := view.Bounds
		view.AreaKm2 = round2((b.MaxLat - b.MinLat) * (b.MaxLng - b.MinLng) * degreeAreaKm2)
	}
	return view
}

func (p *Pipeline) marker(l models.Lamp) Marker {
	cond := p.Condition(l.State)
	if cond == ConditionUnknown && l.IsActive() {
		cond = ConditionOperational
	}
	country := l.Country
	if country == "" {
		country = p.cfg.Labels.Country
	}
	label := fmt.Sprintf("%s, %s", p.cityOf(l), orDefault(l.State, p.cfg.Labels.NoState))
	if l.Region != "" {
		label += " - Región " + l.Region
	}
	return Marker{
		ID:         l.ID,
		Identifier: l.Identifier,
		Position:   *l.Coordinates,
		Condition:  cond,
		Color:      cond.Color(),
		Label:      label,
		Type:       l.Type,
		Country:    country,
	}
}

func boundsOf(points []models.Coordinates) Bounds {
	b := Bounds{MinLat: points[0].Lat, MaxLat: points[0].Lat, MinLng: points[0].Lng, MaxLng: points[0].Lng}
	for _, pt := range points[1:] {
		b.MinLat = math.Min(b.MinLat, pt.Lat)
		b.MaxLat = math.Max(b.MaxLat, pt.Lat)
		b.MinLng = math.Min(b.MinLng, pt.Lng)
		b.MaxLng = math.Max(b.MaxLng, pt.Lng)
	}
	return b
}

func centroid(points []models.Coordinates) models.Coordinates {
	var lat, lng float64
	for _, pt := range points {
		lat += pt.Lat
		lng += pt.Lng
	}
	n := float64(len(points))
	return models.Coordinates{Lat: lat / n, Lng: lng / n}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
