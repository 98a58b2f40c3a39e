package metrics

import (
	"context"

	"github.com/kilianp07/fleetalloc/core/events"
	coremetrics "github.com/kilianp07/fleetalloc/core/metrics"
	"github.com/kilianp07/fleetalloc/infra/logger"
	"github.com/kilianp07/fleetalloc/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// each allocation event. It stops when the context is canceled or the bus
// closes; the returned channel is closed once it has.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[events.AllocationEvent], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				run, loads, alerts, urg := coremetrics.FromReport(ev.RunID, ev.Report, ev.Duration, ev.Time)
				if err := coremetrics.Record(sink, run, loads, alerts, urg); err != nil {
					log.Errorf("record metrics for run %s: %v", ev.RunID, err)
				}
			}
		}
	}()
	return done
}
