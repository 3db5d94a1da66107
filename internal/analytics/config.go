// Package analytics turns normalised dashboard collections into chart-ready
// series. Every function here is pure: inputs are never mutated, malformed
// records fall into labelled buckets and no function returns an error.
package analytics

import (
	"strings"
	"time"

	"EUrbana.dashboard/internal/models"
)

// Labels names the buckets used for missing data.
type Labels struct {
	NoState     string
	Unspecified string
	NoData      string
	Country     string
}

// LampStatusTable lists the lamp state strings belonging to each condition.
// Matching is case-insensitive.
type LampStatusTable struct {
	Operational []string
	Maintenance []string
	Down        []string
}

// MaintenanceStatusTable lists the maintenance status strings counted as
// completed or pending. Anything else is scheduled.
type MaintenanceStatusTable struct {
	Completed []string
	Pending   []string
}

// FeedLimits caps how many entries each source contributes to the activity feed.
type FeedLimits struct {
	Lamps       int
	Maintenance int
	Readings    int
	Users       int
}

// Config parameterises the pipeline. Zero fields take the DefaultConfig value.
type Config struct {
	Now      func() time.Time
	Location *time.Location

	DayWindow       int
	HoursPerDay     int
	HighConsumption float64

	GridSize      float64
	DefaultCenter models.Coordinates
	DefaultZoom   int

	PageSize       int
	RecentReadings int

	Labels   Labels
	Months   [12]string
	Weekdays [7]string

	LampStatus        LampStatusTable
	MaintenanceStatus MaintenanceStatusTable
	Feed              FeedLimits
}

// DefaultConfig returns the dashboard defaults.
func DefaultConfig() Config {
	return Config{
		Now:             time.Now,
		Location:        time.UTC,
		DayWindow:       30,
		HoursPerDay:     10,
		HighConsumption: 50,
		GridSize:        0.001,
		DefaultCenter:   models.Coordinates{Lat: 20.1850122, Lng: -98.0609081},
		DefaultZoom:     13,
		PageSize:        10,
		RecentReadings:  5,
		Labels: Labels{
			NoState:     "no state",
			Unspecified: "unspecified",
			NoData:      "no data",
			Country:     "México",
		},
		Months:   [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"},
		Weekdays: [7]string{"Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"},
		LampStatus: LampStatusTable{
			Operational: []string{"activa", "activo", "funcionando", "encendida"},
			Maintenance: []string{"mantenimiento", "pendiente"},
			Down:        []string{"inactiva", "apagada", "dañada"},
		},
		MaintenanceStatus: MaintenanceStatusTable{
			Completed: []string{"completado", "finalizado"},
			Pending:   []string{"pendiente", ""},
		},
		Feed: FeedLimits{Lamps: 3, Maintenance: 4, Readings: 2, Users: 3},
	}
}

// Pipeline runs the aggregations under one Config. It holds no mutable
// state and is safe for concurrent use.
type Pipeline struct {
	cfg Config

	lampStatus  map[string]LampCondition
	completed   map[string]struct{}
	pendingWord map[string]struct{}
}

// New builds a Pipeline, filling unset Config fields from DefaultConfig.
func New(cfg Config) *Pipeline {
	def := DefaultConfig()
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	if cfg.DayWindow <= 0 {
		cfg.DayWindow = def.DayWindow
	}
	if cfg.HoursPerDay <= 0 {
		cfg.HoursPerDay = def.HoursPerDay
	}
	if cfg.HighConsumption <= 0 {
		cfg.HighConsumption = def.HighConsumption
	}
	if cfg.GridSize <= 0 {
		cfg.GridSize = def.GridSize
	}
	if cfg.DefaultCenter == (models.Coordinates{}) {
		cfg.DefaultCenter = def.DefaultCenter
	}
	if cfg.DefaultZoom <= 0 {
		cfg.DefaultZoom = def.DefaultZoom
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.RecentReadings <= 0 {
		cfg.RecentReadings = def.RecentReadings
	}
	if cfg.Labels == (Labels{}) {
		cfg.Labels = def.Labels
	}
	if cfg.Months == ([12]string{}) {
		cfg.Months = def.Months
	}
	if cfg.Weekdays == ([7]string{}) {
		cfg.Weekdays = def.Weekdays
	}
	if cfg.LampStatus.Operational == nil && cfg.LampStatus.Maintenance == nil && cfg.LampStatus.Down == nil {
		cfg.LampStatus = def.LampStatus
	}
	if cfg.MaintenanceStatus.Completed == nil && cfg.MaintenanceStatus.Pending == nil {
		cfg.MaintenanceStatus = def.MaintenanceStatus
	}
	if cfg.Feed == (FeedLimits{}) {
		cfg.Feed = def.Feed
	}

	p := &Pipeline{
		cfg:         cfg,
		lampStatus:  make(map[string]LampCondition),
		completed:   wordSet(cfg.MaintenanceStatus.Completed),
		pendingWord: wordSet(cfg.MaintenanceStatus.Pending),
	}
	for cond, words := range map[LampCondition][]string{
		ConditionOperational: cfg.LampStatus.Operational,
		ConditionMaintenance: cfg.LampStatus.Maintenance,
		ConditionDown:        cfg.LampStatus.Down,
	} {
		for _, w := range words {
			p.lampStatus[normalizeWord(w)] = cond
		}
	}
	return p
}

// Config returns the effective configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

func (p *Pipeline) now() time.Time {
	return p.cfg.Now().In(p.cfg.Location)
}

// local returns t in the pipeline's zone, or now when t is zero.
func (p *Pipeline) local(t time.Time) time.Time {
	if t.IsZero() {
		return p.now()
	}
	return t.In(p.cfg.Location)
}

func normalizeWord(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[normalizeWord(w)] = struct{}{}
	}
	return set
}
