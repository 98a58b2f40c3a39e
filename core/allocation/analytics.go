package allocation

import (
	"sort"

	"github.com/kilianp07/fleetalloc/core/model"
)

// Severity ranks vehicle alerts.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Alert messages.
const (
	MsgOverloaded = "Overloaded vehicle"
	MsgHeavyLoad  = "Vehicle heavily loaded"
	MsgIdle       = "Idle vehicle with no tasks"
)

// HeavyLoadRatio is the share of capacity at which a vehicle counts as
// heavily loaded.
const HeavyLoadRatio = 0.8

// Alert flags a vehicle state worth showing to an operator.
type Alert struct {
	Vehicle  string   `json:"vehicle"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Alerts emits at most one alert per vehicle, in vehicle order. Overload is
// checked first, then heavy load, then idleness. remaining defaults to the
// vehicle capacity when it has no entry.
func Alerts(vehicles []model.Vehicle, tasks []model.Task, asn model.Assignment, remaining map[string]float64) []Alert {
	byID := model.IndexTasks(tasks)
	alerts := []Alert{}
	for _, v := range vehicles {
		ids := asn[v.ID]
		load := 0.0
		for _, id := range ids {
			load += byID[id].Demand
		}
		rem, ok := remaining[v.ID]
		if !ok {
			rem = v.Capacity
		}
		switch {
		case rem < 0:
			alerts = append(alerts, Alert{Vehicle: v.ID, Severity: SeverityHigh, Message: MsgOverloaded})
		case v.Capacity > 0 && load >= HeavyLoadRatio*v.Capacity:
			alerts = append(alerts, Alert{Vehicle: v.ID, Severity: SeverityMedium, Message: MsgHeavyLoad})
		case len(ids) == 0:
			alerts = append(alerts, Alert{Vehicle: v.ID, Severity: SeverityLow, Message: MsgIdle})
		}
	}
	return alerts
}

// Urgency is the notification tier derived from task priority.
type Urgency string

const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

// Notification is a per-task urgency entry.
type Notification struct {
	Task        string  `json:"task"`
	TaskID      string  `json:"task_id"`
	Priority    int     `json:"priority"`
	Urgency     Urgency `json:"urgency"`
	WindowStart float64 `json:"window_start"`
	WindowEnd   float64 `json:"window_end"`
	Message     string  `json:"notification"`
}

// Classify maps a priority to its urgency tier and message.
func Classify(priority int) (Urgency, string) {
	switch {
	case priority >= 4:
		return UrgencyHigh, "High-priority task"
	case priority == 3:
		return UrgencyMedium, "Medium-priority task"
	default:
		return UrgencyLow, "Low-priority task"
	}
}

// Notifications lists every task ordered by time window start. Tasks with the
// same start keep their input order.
func Notifications(tasks []model.Task) []Notification {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimeWindow.Start < sorted[j].TimeWindow.Start
	})
	notes := make([]Notification, 0, len(sorted))
	for _, t := range sorted {
		u, msg := Classify(t.Priority)
		notes = append(notes, Notification{
			Task:        t.Label(),
			TaskID:      t.ID,
			Priority:    t.Priority,
			Urgency:     u,
			WindowStart: t.TimeWindow.Start,
			WindowEnd:   t.TimeWindow.End,
			Message:     msg,
		})
	}
	return notes
}

// HasHighUrgency reports whether any notification is high urgency.
func HasHighUrgency(notes []Notification) bool {
	for _, n := range notes {
		if n.Urgency == UrgencyHigh {
			return true
		}
	}
	return false
}

// Unallocated returns the tasks absent from every assignment list, in input
// order.
func Unallocated(tasks []model.Task, asn model.Assignment) []model.Task {
	allocated := asn.Allocated()
	out := []model.Task{}
	for _, t := range tasks {
		if _, ok := allocated[t.ID]; !ok {
			out = append(out, t)
		}
	}
	return out
}
