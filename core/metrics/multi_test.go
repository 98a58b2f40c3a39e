package metrics

import "testing"

type recordSink struct {
	runs   int
	loads  int
	alerts int
}

func (r *recordSink) RecordAllocation(AllocationRun) error {
	r.runs++
	return nil
}

func (r *recordSink) RecordVehicleLoads(l []VehicleLoad) error {
	r.loads += len(l)
	return nil
}

func (r *recordSink) RecordAlert(AlertEvent) error {
	r.alerts++
	return nil
}

// runOnly implements no optional recorder.
type runOnly struct{ runs int }

func (r *runOnly) RecordAllocation(AllocationRun) error {
	r.runs++
	return nil
}

// TestMultiSink ensures records are forwarded to all sinks.
func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &runOnly{}
	m := NewMultiSink(s1, s2)
	err := Record(m, AllocationRun{RunID: "r"}, []VehicleLoad{{VehicleID: "v1"}, {VehicleID: "v2"}},
		[]AlertEvent{{VehicleID: "v1"}}, UrgencyCount{})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if s1.runs != 1 || s2.runs != 1 {
		t.Fatalf("runs not forwarded: %d %d", s1.runs, s2.runs)
	}
	if s1.loads != 2 || s1.alerts != 1 {
		t.Fatalf("optional records not forwarded: loads=%d alerts=%d", s1.loads, s1.alerts)
	}
}
