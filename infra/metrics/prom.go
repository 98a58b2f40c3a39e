package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/fleetalloc/core/metrics"
)

// PromSink records allocation outcomes in Prometheus metrics.
type PromSink struct {
	runs        *prometheus.CounterVec
	tasks       *prometheus.CounterVec
	vehicleLoad *prometheus.GaugeVec
	routeLength *prometheus.GaugeVec
	alerts      *prometheus.CounterVec
	urgency     *prometheus.GaugeVec
}

// NewPromSink registers allocation metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "allocation_runs_total",
			Help: "Total number of allocation runs",
		}, []string{"truncated"}),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "allocation_tasks_total",
			Help: "Tasks seen by allocation runs by outcome",
		}, []string{"outcome"}),
		vehicleLoad: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "allocation_vehicle_remaining_capacity",
			Help: "Remaining capacity per vehicle after the last run",
		}, []string{"vehicle_id"}),
		routeLength: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "allocation_vehicle_route_length",
			Help: "Estimated route length per vehicle after the last run",
		}, []string{"vehicle_id"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "allocation_alerts_total",
			Help: "Alerts raised by allocation runs",
		}, []string{"vehicle_id", "severity"}),
		urgency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "allocation_notifications",
			Help: "Task notifications per urgency tier in the last run",
		}, []string{"urgency"}),
	}
	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.tasks, err = register(reg, s.tasks); err != nil {
		return nil, err
	}
	if s.vehicleLoad, err = register(reg, s.vehicleLoad); err != nil {
		return nil, err
	}
	if s.routeLength, err = register(reg, s.routeLength); err != nil {
		return nil, err
	}
	if s.alerts, err = register(reg, s.alerts); err != nil {
		return nil, err
	}
	if s.urgency, err = register(reg, s.urgency); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordAllocation counts the run and its task outcomes.
func (s *PromSink) RecordAllocation(run coremetrics.AllocationRun) error {
	s.runs.WithLabelValues(strconv.FormatBool(run.Truncated)).Inc()
	s.tasks.WithLabelValues("allocated").Add(float64(run.Allocated))
	s.tasks.WithLabelValues("unallocated").Add(float64(run.Unallocated))
	return nil
}

// RecordVehicleLoads sets per-vehicle gauges.
func (s *PromSink) RecordVehicleLoads(loads []coremetrics.VehicleLoad) error {
	for _, l := range loads {
		s.vehicleLoad.WithLabelValues(l.VehicleID).Set(l.Remaining)
		s.routeLength.WithLabelValues(l.VehicleID).Set(l.RouteLength)
	}
	return nil
}

// RecordAlert counts alerts by vehicle and severity.
func (s *PromSink) RecordAlert(ev coremetrics.AlertEvent) error {
	s.alerts.WithLabelValues(ev.VehicleID, string(ev.Severity)).Inc()
	return nil
}

// RecordUrgency sets the notification gauges.
func (s *PromSink) RecordUrgency(c coremetrics.UrgencyCount) error {
	s.urgency.Reset()
	for tier, n := range c.Tier {
		s.urgency.WithLabelValues(string(tier)).Set(float64(n))
	}
	return nil
}
