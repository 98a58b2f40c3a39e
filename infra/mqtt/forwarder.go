package mqtt

import (
	"context"
	"slices"

	"github.com/kilianp07/fleetalloc/core/allocation"
	"github.com/kilianp07/fleetalloc/core/events"
	coremqtt "github.com/kilianp07/fleetalloc/core/mqtt"
	"github.com/kilianp07/fleetalloc/infra/logger"
	"github.com/kilianp07/fleetalloc/internal/eventbus"
)

// PlansFromReport builds one plan per vehicle row, in row order.
func PlansFromReport(runID string, rep allocation.Report) []coremqtt.Plan {
	plans := make([]coremqtt.Plan, 0, len(rep.Rows))
	for _, row := range rep.Rows {
		tasks := slices.Clone(rep.Result.Assignments[row.Vehicle])
		if tasks == nil {
			tasks = []string{}
		}
		plans = append(plans, coremqtt.Plan{
			RunID:     runID,
			VehicleID: row.Vehicle,
			Tasks:     tasks,
			Route:     row.Route,
			Remaining: row.Remaining,
		})
	}
	return plans
}

// Publish sends every plan and alert of one allocation event. Failures are
// logged and the first one is returned after all attempts.
func Publish(ctx context.Context, pub coremqtt.Publisher, ev events.AllocationEvent, log logger.Logger) error {
	var first error
	note := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	for _, p := range PlansFromReport(ev.RunID, ev.Report) {
		if _, err := pub.PublishPlan(ctx, p); err != nil {
			log.Errorf("publish plan for %s: %v", p.VehicleID, err)
			note(err)
		}
	}
	for _, a := range ev.Report.Alerts {
		err := pub.PublishAlert(ctx, coremqtt.Alert{
			RunID:     ev.RunID,
			VehicleID: a.Vehicle,
			Severity:  string(a.Severity),
			Message:   a.Message,
		})
		if err != nil {
			log.Errorf("publish alert for %s: %v", a.Vehicle, err)
			note(err)
		}
	}
	return first
}

// StartForwarder subscribes to the bus and publishes each allocation event.
// It stops when the context is canceled or the bus closes; the returned
// channel is closed once the goroutine has exited.
func StartForwarder(ctx context.Context, bus *eventbus.Bus[events.AllocationEvent], pub coremqtt.Publisher, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || pub == nil {
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
				_ = Publish(ctx, pub, ev, log)
			}
		}
	}()
	return done
}
