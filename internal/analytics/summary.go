package analytics

import "EUrbana.dashboard/internal/models"

// Summary derives the headline counters of the dashboard.
func (p *Pipeline) Summary(s Snapshot) Summary {
	active := 0
	for _, l := range s.Lamps {
		if p.IsActive(l) {
			active++
		}
	}
	pending := 0
	for _, m := range s.Maintenance {
		if p.MaintenanceStatusOf(m.Status) == StatusPending {
			pending++
		}
	}

	var pct float64
	if len(s.Lamps) > 0 {
		pct = round1(float64(active) / float64(len(s.Lamps)) * 100)
	}
	return Summary{
		TotalLamps:         len(s.Lamps),
		ActiveLamps:        active,
		ActivePercentage:   pct,
		TotalUsers:         len(s.Users),
		PendingMaintenance: pending,
		TotalReadings:      len(s.Readings),
		AverageConsumption: AverageConsumption(s.Readings),
	}
}

// Snapshot is one consistent read of the four dashboard collections.
type Snapshot struct {
	Lamps       []models.Lamp        `json:"luminarias"`
	Readings    []models.Reading     `json:"consumos"`
	Maintenance []models.Maintenance `json:"mantenimientos"`
	Users       []models.User        `json:"usuarios"`
}
