package analytics

import (
	"fmt"
	"sort"

	"EUrbana.dashboard/internal/models"
)

const dayLayout = "2006-01-02"

// GroupByDay sums consumption per calendar day, oldest first, keeping the
// most recent DayWindow days. Readings without a date count for today.
func (p *Pipeline) GroupByDay(readings []models.Reading) []Point {
	if len(readings) == 0 {
		return []Point{{X: p.now().Format(dayLayout), Y: 0}}
	}
	totals := make(map[string]float64)
	for _, r := range readings {
		totals[p.local(r.Time).Format(dayLayout)] += r.Value
	}

	days := make([]string, 0, len(totals))
	for d := range totals {
		days = append(days, d)
	}
	sort.Strings(days)
	if len(days) > p.cfg.DayWindow {
		days = days[len(days)-p.cfg.DayWindow:]
	}

	out := make([]Point, 0, len(days))
	for _, d := range days {
		out = append(out, Point{X: d, Y: round2(totals[d])})
	}
	return out
}

// GroupByDayHour sums consumption per day and hour of day. Each day lists at
// most HoursPerDay hours, earliest first; days are oldest first and limited
// to the DayWindow most recent.
func (p *Pipeline) GroupByDayHour(readings []models.Reading) []DaySeries {
	totals := make(map[string]map[int]float64)
	for _, r := range readings {
		t := p.local(r.Time)
		day := t.Format(dayLayout)
		if totals[day] == nil {
			totals[day] = make(map[int]float64)
		}
		totals[day][t.Hour()] += r.Value
	}

	days := make([]string, 0, len(totals))
	for d := range totals {
		days = append(days, d)
	}
	sort.Strings(days)
	if len(days) > p.cfg.DayWindow {
		days = days[len(days)-p.cfg.DayWindow:]
	}

	out := make([]DaySeries, 0, len(days))
	for _, d := range days {
		hours := make([]int, 0, len(totals[d]))
		for h := range totals[d] {
			hours = append(hours, h)
		}
		sort.Ints(hours)
		if len(hours) > p.cfg.HoursPerDay {
			hours = hours[:p.cfg.HoursPerDay]
		}
		points := make([]Point, 0, len(hours))
		for _, h := range hours {
			points = append(points, Point{X: fmt.Sprintf("%02d", h), Y: round2(totals[d][h])})
		}
		out = append(out, DaySeries{ID: d, Data: points})
	}
	return out
}

// RecentReadings returns the latest RecentReadings readings of one lamp,
// oldest first. Undated readings sort before dated ones.
func (p *Pipeline) RecentReadings(readings []models.Reading, lampID string) []models.Reading {
	own := make([]models.Reading, 0)
	for _, r := range readings {
		if r.LampID == lampID {
			own = append(own, r)
		}
	}
	sort.SliceStable(own, func(i, j int) bool { return own[i].Time.Before(own[j].Time) })
	if len(own) > p.cfg.RecentReadings {
		own = own[len(own)-p.cfg.RecentReadings:]
	}
	return own
}

// AverageConsumption is the mean reading value, 0 for no readings.
func AverageConsumption(readings []models.Reading) float64 {
	if len(readings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range readings {
		sum += r.Value
	}
	return round2(sum / float64(len(readings)))
}
