package models

import "time"

// HistoryRequest selects archived consumption of one lamp, aggregated in
// windows of WindowPeriod (a Flux duration such as "1h").
type HistoryRequest struct {
	LampID         string `json:"luminaria_id"`
	TimeRangeStart string `json:"time_range_start"`
	TimeRangeStop  string `json:"time_range_stop"`
	WindowPeriod   string `json:"window_period"`
}

type DataPoint struct {
	Time time.Time `json:"time"`
	// nil when the window held no value
	Value *float64 `json:"value"`
}

type HistoryResponse struct {
	LampID   string                 `json:"luminaria_id"`
	Readings map[string][]DataPoint `json:"readings"`
}
