package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/fleetalloc/config"
	"github.com/kilianp07/fleetalloc/core/allocation"
	"github.com/kilianp07/fleetalloc/core/events"
	coremetrics "github.com/kilianp07/fleetalloc/core/metrics"
	coremqtt "github.com/kilianp07/fleetalloc/core/mqtt"
	"github.com/kilianp07/fleetalloc/core/normalize"
	"github.com/kilianp07/fleetalloc/core/runlog"
	"github.com/kilianp07/fleetalloc/infra/logger"
	"github.com/kilianp07/fleetalloc/infra/metrics"
	"github.com/kilianp07/fleetalloc/infra/mqtt"
	"github.com/kilianp07/fleetalloc/internal/eventbus"
)

// Service runs allocations and fans their results out to the run log,
// metrics sinks and the optional MQTT publisher. Every call to Allocate
// works on freshly normalized entities, so concurrent calls share nothing
// but the outputs.
type Service struct {
	cfg       *config.Config
	log       logger.Logger
	store     runlog.Store
	sink      coremetrics.MetricsSink
	publisher coremqtt.Publisher
	bus       *eventbus.Bus[events.AllocationEvent]
	now       func() time.Time
	closers   []func() error
	startOnce sync.Once
	done      []<-chan struct{}
}

// Option customizes a Service.
type Option func(*Service)

// WithStore replaces the configured run store.
func WithStore(s runlog.Store) Option { return func(svc *Service) { svc.store = s } }

// WithSink replaces the configured metrics sink.
func WithSink(s coremetrics.MetricsSink) Option { return func(svc *Service) { svc.sink = s } }

// WithPublisher sets the MQTT publisher instead of dialing the configured broker.
func WithPublisher(p coremqtt.Publisher) Option { return func(svc *Service) { svc.publisher = p } }

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option { return func(svc *Service) { svc.log = l } }

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option { return func(svc *Service) { svc.now = now } }

// New creates a Service from the configuration.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	svc := &Service{
		cfg: cfg,
		bus: eventbus.NewWithBuffer[events.AllocationEvent](32),
		now: time.Now,
	}
	for _, o := range opts {
		o(svc)
	}
	if svc.log == nil {
		svc.log = logger.New("service")
	}
	if svc.store == nil {
		store, err := runlog.New(ctx, cfg.RunLog)
		if err != nil {
			return nil, fmt.Errorf("run store: %w", err)
		}
		svc.store = store
		svc.closers = append(svc.closers, store.Close)
	}
	if svc.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			svc.closeAll()
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
		svc.sink = sink
	}
	if svc.publisher == nil && cfg.MQTT.Enabled {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			svc.closeAll()
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.publisher = client
		svc.closers = append(svc.closers, func() error { client.Disconnect(); return nil })
	}
	return svc, nil
}

// Start launches the bus subscribers. They stop when ctx is canceled or
// the service is closed. Only the first call has an effect.
func (s *Service) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.done = append(s.done, metrics.StartEventCollector(ctx, s.bus, s.sink, logger.New("metrics_collector")))
		if s.publisher != nil {
			s.done = append(s.done, mqtt.StartForwarder(ctx, s.bus, s.publisher, logger.New("mqtt_forwarder")))
		}
	})
}

// Bus exposes allocation events, for example to stream them to clients.
func (s *Service) Bus() *eventbus.Bus[events.AllocationEvent] { return s.bus }

// Store returns the run store.
func (s *Service) Store() runlog.Store { return s.store }

// Allocate normalizes the scenario, runs the allocator and records the run.
// A store failure is returned together with the computed report.
func (s *Service) Allocate(ctx context.Context, sc normalize.Scenario) (allocation.Report, error) {
	if err := ctx.Err(); err != nil {
		return allocation.Report{}, err
	}
	norm := normalize.Normalize(sc)
	for _, w := range norm.Warnings {
		s.log.Warnf("%s", w)
	}
	opts := allocation.Options{
		CurrentTime: s.cfg.Allocation.CurrentTime,
		MaxRounds:   s.cfg.Allocation.MaxRounds,
		Logger:      s.log,
	}
	start := time.Now()
	rep := allocation.Run(norm.Vehicles, norm.Tasks, opts)
	elapsed := time.Since(start)
	rep.Warnings = norm.Warnings
	if s.cfg.Allocation.IncludeMatrix {
		m := allocation.NewCostMatrix(norm.Vehicles, norm.Tasks)
		rep.Matrix = &m
	}
	ts := s.now()
	rec := runlog.NewRecord(rep, ts)
	rep.RunID = rec.ID

	s.log.Infof("run %s: %d/%d tasks allocated across %d vehicles in %d rounds",
		rep.RunID, rep.Summary.Allocated, rep.Summary.Tasks, rep.Summary.Vehicles, rep.Result.Rounds)

	s.bus.Publish(events.AllocationEvent{RunID: rep.RunID, Time: ts, Duration: elapsed, Report: rep})
	if err := s.store.Append(ctx, rec); err != nil {
		s.log.Errorf("append run %s: %v", rep.RunID, err)
		return rep, fmt.Errorf("append run: %w", err)
	}
	return rep, nil
}

// Runs queries the run store.
func (s *Service) Runs(ctx context.Context, q runlog.Query) ([]runlog.Record, error) {
	return s.store.Query(ctx, q)
}

// Close stops the subscribers and releases owned resources.
func (s *Service) Close() error {
	s.bus.Close()
	for _, d := range s.done {
		<-d
	}
	return s.closeAll()
}

func (s *Service) closeAll() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
