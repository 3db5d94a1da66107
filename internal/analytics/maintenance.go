package analytics

import (
	"time"

	"EUrbana.dashboard/internal/models"
)

var timeBands = [4]string{"00h", "06h", "12h", "18h"}

// GroupByMonthStatus counts maintenance records per month and status bucket,
// months in first-seen order. Undated records count for the current month.
func (p *Pipeline) GroupByMonthStatus(records []models.Maintenance) []MonthRow {
	if len(records) == 0 {
		out := make([]MonthRow, 6)
		for i := range out {
			out[i].Month = p.cfg.Months[i]
		}
		return out
	}

	index := make(map[string]int)
	var out []MonthRow
	for _, m := range records {
		month := p.cfg.Months[p.local(m.Time).Month()-1]
		i, ok := index[month]
		if !ok {
			i = len(out)
			index[month] = i
			out = append(out, MonthRow{Month: month})
		}
		switch p.MaintenanceStatusOf(m.Status) {
		case StatusCompleted:
			out[i].Completed++
		case StatusPending:
			out[i].Pending++
		default:
			out[i].Scheduled++
		}
	}
	return out
}

// WeekdayHeatmap counts maintenance records on a fixed 7x4 grid of weekday
// (Monday first) by six-hour band. Undated records count for now.
func (p *Pipeline) WeekdayHeatmap(records []models.Maintenance) []HeatRow {
	var grid [7][4]int
	for _, m := range records {
		t := p.local(m.Time)
		grid[weekdayIndex(t.Weekday())][t.Hour()/6]++
	}

	out := make([]HeatRow, 7)
	for d := range out {
		cells := make([]HeatCell, len(timeBands))
		for b, band := range timeBands {
			cells[b] = HeatCell{X: band, Y: grid[d][b]}
		}
		out[d] = HeatRow{ID: p.cfg.Weekdays[d], Data: cells}
	}
	return out
}

func weekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// MaintenanceForLamp returns the records of one lamp in input order.
func MaintenanceForLamp(records []models.Maintenance, lampID string) []models.Maintenance {
	out := make([]models.Maintenance, 0)
	for _, m := range records {
		if m.LampID == lampID {
			out = append(out, m)
		}
	}
	return out
}
