package analytics

import "sort"

// Series names accepted by Pipeline.Series.
const (
	SeriesState              = "estado"
	SeriesCity               = "ciudad"
	SeriesDailyConsumption   = "consumo-diario"
	SeriesHourlyConsumption  = "consumo-horario"
	SeriesMonthlyMaintenance = "mantenimiento-mensual"
	SeriesMaintenanceHeatmap = "mantenimiento-heatmap"
	SeriesSummary            = "resumen"
	SeriesMap                = "mapa"
	SeriesActivity           = "actividad"
)

var builders = map[string]func(*Pipeline, Snapshot) any{
	SeriesState:              func(p *Pipeline, s Snapshot) any { return p.GroupByState(s.Lamps) },
	SeriesCity:               func(p *Pipeline, s Snapshot) any { return p.GroupByCity(s.Lamps) },
	SeriesDailyConsumption:   func(p *Pipeline, s Snapshot) any { return p.GroupByDay(s.Readings) },
	SeriesHourlyConsumption:  func(p *Pipeline, s Snapshot) any { return p.GroupByDayHour(s.Readings) },
	SeriesMonthlyMaintenance: func(p *Pipeline, s Snapshot) any { return p.GroupByMonthStatus(s.Maintenance) },
	SeriesMaintenanceHeatmap: func(p *Pipeline, s Snapshot) any { return p.WeekdayHeatmap(s.Maintenance) },
	SeriesSummary:            func(p *Pipeline, s Snapshot) any { return p.Summary(s) },
	SeriesMap:                func(p *Pipeline, s Snapshot) any { return p.MapView(s.Lamps) },
	SeriesActivity:           func(p *Pipeline, s Snapshot) any { return p.ActivityFeed(s) },
}

// SeriesNames lists the registered series, sorted.
func SeriesNames() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Series builds one named series. ok is false for unknown names.
func (p *Pipeline) Series(name string, s Snapshot) (any, bool) {
	build, ok := builders[name]
	if !ok {
		return nil, false
	}
	return build(p, s), true
}

// Dashboard holds every series of the main dashboard view.
type Dashboard struct {
	Summary            Summary     `json:"resumen"`
	ByState            []Slice     `json:"estado"`
	ByCity             []Slice     `json:"ciudad"`
	DailyConsumption   []Point     `json:"consumoDiario"`
	HourlyConsumption  []DaySeries `json:"consumoHorario"`
	MonthlyMaintenance []MonthRow  `json:"mantenimientoMensual"`
	MaintenanceHeatmap []HeatRow   `json:"mantenimientoHeatmap"`
	Map                MapView     `json:"mapa"`
	Activity           []Activity  `json:"actividad"`
}

// Dashboard builds every series from one snapshot.
func (p *Pipeline) Dashboard(s Snapshot) Dashboard {
	return Dashboard{
		Summary:            p.Summary(s),
		ByState:            p.GroupByState(s.Lamps),
		ByCity:             p.GroupByCity(s.Lamps),
		DailyConsumption:   p.GroupByDay(s.Readings),
		HourlyConsumption:  p.GroupByDayHour(s.Readings),
		MonthlyMaintenance: p.GroupByMonthStatus(s.Maintenance),
		MaintenanceHeatmap: p.WeekdayHeatmap(s.Maintenance),
		Map:                p.MapView(s.Lamps),
		Activity:           p.ActivityFeed(s),
	}
}
