package metrics

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAllocation forwards the run to all sinks, returning the first error encountered.
func (m *MultiSink) RecordAllocation(run AllocationRun) error {
	for _, s := range m.Sinks {
		if err := s.RecordAllocation(run); err != nil {
			return err
		}
	}
	return nil
}

// RecordVehicleLoads forwards loads when supported by the sink.
func (m *MultiSink) RecordVehicleLoads(loads []VehicleLoad) error {
	for _, s := range m.Sinks {
		if r, ok := s.(VehicleLoadRecorder); ok {
			if err := r.RecordVehicleLoads(loads); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordAlert forwards alerts when supported by the sink.
func (m *MultiSink) RecordAlert(ev AlertEvent) error {
	for _, s := range m.Sinks {
		if r, ok := s.(AlertRecorder); ok {
			if err := r.RecordAlert(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordUrgency forwards urgency counts when supported by the sink.
func (m *MultiSink) RecordUrgency(c UrgencyCount) error {
	for _, s := range m.Sinks {
		if r, ok := s.(UrgencyRecorder); ok {
			if err := r.RecordUrgency(c); err != nil {
				return err
			}
		}
	}
	return nil
}
