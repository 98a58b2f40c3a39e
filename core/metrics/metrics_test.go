package metrics

import (
	"testing"
	"time"

	"github.com/kilianp07/fleetalloc/core/allocation"
	"github.com/kilianp07/fleetalloc/core/model"
)

func TestFromReport(t *testing.T) {
	vehicles := []model.Vehicle{
		{ID: "v1", Capacity: 10, Speed: 5, VehicleType: model.TypeDelivery, Capabilities: model.Capabilities{model.TypeDelivery}},
		{ID: "v2", Capacity: 10, Speed: 5, VehicleType: model.TypeDelivery, Capabilities: model.Capabilities{model.TypeDelivery}},
	}
	tasks := []model.Task{
		{ID: "1", Demand: 9, Priority: 4, TaskType: model.TypeDelivery, TimeWindow: model.TimeWindow{End: 100}},
		{ID: "2", Demand: 1, Priority: 1, TaskType: model.TypeDelivery, TimeWindow: model.TimeWindow{End: 100}},
	}
	rep := allocation.Run(vehicles, tasks, allocation.Options{})
	ts := time.Unix(100, 0)
	run, loads, alerts, urg := FromReport("run-1", rep, time.Millisecond, ts)

	if run.Vehicles != 2 || run.Tasks != 2 || run.Allocated != 2 {
		t.Fatalf("unexpected run %+v", run)
	}
	if len(loads) != 2 {
		t.Fatalf("expected 2 loads, got %d", len(loads))
	}
	total := 0
	for _, l := range loads {
		total += l.Tasks
		if l.RunID != "run-1" || !l.Time.Equal(ts) {
			t.Fatalf("load not stamped: %+v", l)
		}
	}
	if total != 2 {
		t.Fatalf("expected 2 tasks across loads, got %d", total)
	}
	if len(alerts) != len(rep.Alerts) {
		t.Fatalf("alerts mismatch %d vs %d", len(alerts), len(rep.Alerts))
	}
	if urg.Tier[allocation.UrgencyHigh] != 1 || urg.Tier[allocation.UrgencyLow] != 1 {
		t.Fatalf("unexpected urgency %+v", urg.Tier)
	}
}

func TestNopSink(t *testing.T) {
	if err := Record(NopSink{}, AllocationRun{}, nil, nil, UrgencyCount{}); err != nil {
		t.Fatalf("nop: %v", err)
	}
}
