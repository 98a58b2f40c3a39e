package metrics

import (
	"time"

	"github.com/kilianp07/fleetalloc/core/allocation"
)

// AllocationRun summarizes one allocation for export.
type AllocationRun struct {
	RunID       string
	Vehicles    int
	Tasks       int
	Allocated   int
	Unallocated int
	Rounds      int
	Truncated   bool
	TotalRoute  float64
	Duration    time.Duration
	Time        time.Time
}

// MetricsSink records allocation runs for observability purposes.
type MetricsSink interface {
	RecordAllocation(run AllocationRun) error
}

// VehicleLoad is the outcome of a run for one vehicle.
type VehicleLoad struct {
	RunID       string
	VehicleID   string
	Tasks       int
	Capacity    float64
	Remaining   float64
	RouteLength float64
	Time        time.Time
}

// VehicleLoadRecorder records per-vehicle load.
type VehicleLoadRecorder interface {
	RecordVehicleLoads(loads []VehicleLoad) error
}

// AlertEvent is one operational alert raised by a run.
type AlertEvent struct {
	RunID     string
	VehicleID string
	Severity  allocation.Severity
	Message   string
	Time      time.Time
}

// AlertRecorder records alerts.
type AlertRecorder interface {
	RecordAlert(ev AlertEvent) error
}

// UrgencyCount counts notifications per urgency tier.
type UrgencyCount struct {
	RunID string
	Tier  map[allocation.Urgency]int
	Time  time.Time
}

// UrgencyRecorder records notification tiers.
type UrgencyRecorder interface {
	RecordUrgency(c UrgencyCount) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordAllocation(AllocationRun) error   { return nil }
func (NopSink) RecordVehicleLoads([]VehicleLoad) error { return nil }
func (NopSink) RecordAlert(AlertEvent) error           { return nil }
func (NopSink) RecordUrgency(UrgencyCount) error       { return nil }

// FromReport converts a report into the records understood by sinks.
func FromReport(runID string, rep allocation.Report, elapsed time.Duration, ts time.Time) (AllocationRun, []VehicleLoad, []AlertEvent, UrgencyCount) {
	run := AllocationRun{
		RunID:       runID,
		Vehicles:    rep.Summary.Vehicles,
		Tasks:       rep.Summary.Tasks,
		Allocated:   rep.Summary.Allocated,
		Unallocated: rep.Summary.Unallocated,
		Rounds:      rep.Result.Rounds,
		Truncated:   rep.Result.Truncated,
		TotalRoute:  rep.Summary.TotalRoute,
		Duration:    elapsed,
		Time:        ts,
	}
	loads := make([]VehicleLoad, 0, len(rep.Rows))
	for _, row := range rep.Rows {
		loads = append(loads, VehicleLoad{
			RunID:       runID,
			VehicleID:   row.Vehicle,
			Tasks:       len(rep.Result.Assignments[row.Vehicle]),
			Capacity:    row.Capacity,
			Remaining:   row.Remaining,
			RouteLength: row.Route,
			Time:        ts,
		})
	}
	alerts := make([]AlertEvent, 0, len(rep.Alerts))
	for _, a := range rep.Alerts {
		alerts = append(alerts, AlertEvent{RunID: runID, VehicleID: a.Vehicle, Severity: a.Severity, Message: a.Message, Time: ts})
	}
	urg := UrgencyCount{RunID: runID, Tier: map[allocation.Urgency]int{}, Time: ts}
	for _, n := range rep.Notifications {
		urg.Tier[n.Urgency]++
	}
	return run, loads, alerts, urg
}

// Record pushes every record derived from one run into sink, using the
// optional recorder interfaces when the sink implements them.
func Record(sink MetricsSink, run AllocationRun, loads []VehicleLoad, alerts []AlertEvent, urg UrgencyCount) error {
	if err := sink.RecordAllocation(run); err != nil {
		return err
	}
	if r, ok := sink.(VehicleLoadRecorder); ok {
		if err := r.RecordVehicleLoads(loads); err != nil {
			return err
		}
	}
	if r, ok := sink.(AlertRecorder); ok {
		for _, a := range alerts {
			if err := r.RecordAlert(a); err != nil {
				return err
			}
		}
	}
	if r, ok := sink.(UrgencyRecorder); ok {
		return r.RecordUrgency(urg)
	}
	return nil
}
