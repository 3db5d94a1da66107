package analytics

import (
	"fmt"
	"sort"
	"time"

	"EUrbana.dashboard/internal/models"
)

const (
	ActivityLampInstalled        = "luminaria_instalada"
	ActivityMaintenanceCompleted = "mantenimiento_completado"
	ActivityMaintenanceScheduled = "mantenimiento_programado"
	ActivityHighConsumption      = "consumo_alto"
	ActivityUserRegistered       = "usuario_registrado"
)

// ActivityFeed merges the newest dated events of each collection, newest
// first. Each source contributes at most its Feed limit.
func (p *Pipeline) ActivityFeed(s Snapshot) []Activity {
	now := p.now()
	var feed []Activity

	lamps := make([]models.Lamp, 0, len(s.Lamps))
	for _, l := range s.Lamps {
		if !l.InstalledAt.IsZero() {
			lamps = append(lamps, l)
		}
	}
	sort.SliceStable(lamps, func(i, j int) bool { return lamps[i].InstalledAt.After(lamps[j].InstalledAt) })
	for _, l := range head(lamps, p.cfg.Feed.Lamps) {
		feed = append(feed, Activity{
			ID:          "lamp-" + l.ID,
			Kind:        ActivityLampInstalled,
			Title:       "Nueva luminaria instalada",
			Description: fmt.Sprintf("%s en %s", orDefault(l.Identifier, l.ID), p.cityOf(l)),
			Time:        l.InstalledAt,
		})
	}

	records := make([]models.Maintenance, 0, len(s.Maintenance))
	for _, m := range s.Maintenance {
		if !m.Time.IsZero() {
			records = append(records, m)
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Time.After(records[j].Time) })
	for _, m := range head(records, p.cfg.Feed.Maintenance) {
		a := Activity{
			ID:          "maintenance-" + m.ID,
			Kind:        ActivityMaintenanceScheduled,
			Title:       "Mantenimiento programado",
			Description: fmt.Sprintf("%s en luminaria %s", orDefault(m.Type, "Mantenimiento"), m.LampID),
			Time:        m.Time,
		}
		if p.MaintenanceStatusOf(m.Status) == StatusCompleted {
			a.Kind = ActivityMaintenanceCompleted
			a.Title = "Mantenimiento completado"
		}
		feed = append(feed, a)
	}

	high := make([]models.Reading, 0)
	for _, r := range s.Readings {
		if !r.Time.IsZero() && r.Value > p.cfg.HighConsumption {
			high = append(high, r)
		}
	}
	sort.SliceStable(high, func(i, j int) bool { return high[i].Time.After(high[j].Time) })
	for _, r := range head(high, p.cfg.Feed.Readings) {
		feed = append(feed, Activity{
			ID:          "reading-" + r.ID,
			Kind:        ActivityHighConsumption,
			Title:       "Consumo elevado detectado",
			Description: fmt.Sprintf("Luminaria %s registró %.2f kWh", r.LampID, r.Value),
			Time:        r.Time,
		})
	}

	users := make([]models.User, 0, len(s.Users))
	for _, u := range s.Users {
		if !u.RegisteredAt.IsZero() {
			users = append(users, u)
		}
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].RegisteredAt.After(users[j].RegisteredAt) })
	for _, u := range head(users, p.cfg.Feed.Users) {
		feed = append(feed, Activity{
			ID:          "user-" + u.ID,
			Kind:        ActivityUserRegistered,
			Title:       "Nuevo usuario registrado",
			Description: fmt.Sprintf("%s (%s)", u.Name, u.Role),
			Time:        u.RegisteredAt,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool { return feed[i].Time.After(feed[j].Time) })
	for i := range feed {
		feed[i].Time = feed[i].Time.In(p.cfg.Location)
		feed[i].Age = Age(now.Sub(feed[i].Time))
	}
	if feed == nil {
		feed = []Activity{}
	}
	return feed
}

// Age renders an elapsed duration the way the feed shows it.
func Age(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%d min", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
