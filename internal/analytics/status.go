package analytics

import "EUrbana.dashboard/internal/models"

// LampCondition groups the free-form lamp state strings.
type LampCondition string

const (
	ConditionOperational LampCondition = "operational"
	ConditionMaintenance LampCondition = "maintenance"
	ConditionDown        LampCondition = "down"
	ConditionUnknown     LampCondition = "unknown"
)

// Color is the marker colour used on the map for the condition.
func (c LampCondition) Color() string {
	switch c {
	case ConditionOperational:
		return "#22C55E"
	case ConditionMaintenance:
		return "#F59E0B"
	case ConditionDown:
		return "#EF4444"
	default:
		return "#3B82F6"
	}
}

// MaintenanceStatus is the bucket a maintenance record is counted in.
type MaintenanceStatus string

const (
	StatusCompleted MaintenanceStatus = "completed"
	StatusPending   MaintenanceStatus = "pending"
	StatusScheduled MaintenanceStatus = "scheduled"
)

// Condition classifies a lamp state string.
func (p *Pipeline) Condition(state string) LampCondition {
	if c, ok := p.lampStatus[normalizeWord(state)]; ok {
		return c
	}
	return ConditionUnknown
}

// IsActive reports whether a lamp counts as active: its flag is set or its
// state is an operational one.
func (p *Pipeline) IsActive(l models.Lamp) bool {
	return l.IsActive() || p.Condition(l.State) == ConditionOperational
}

// MaintenanceStatusOf classifies a maintenance status string.
func (p *Pipeline) MaintenanceStatusOf(status string) MaintenanceStatus {
	w := normalizeWord(status)
	if _, ok := p.completed[w]; ok {
		return StatusCompleted
	}
	if _, ok := p.pendingWord[w]; ok {
		return StatusPending
	}
	return StatusScheduled
}
