package events

import (
	"time"

	"github.com/kilianp07/fleetalloc/core/allocation"
)

// AllocationEvent is published once per completed allocation run.
type AllocationEvent struct {
	RunID    string            `json:"run_id"`
	Time     time.Time         `json:"time"`
	Duration time.Duration     `json:"duration_ns"`
	Report   allocation.Report `json:"report"`
}

// HasHighSeverity reports whether the run raised an overload alert.
func (e AllocationEvent) HasHighSeverity() bool {
	for _, a := range e.Report.Alerts {
		if a.Severity == allocation.SeverityHigh {
			return true
		}
	}
	return false
}
