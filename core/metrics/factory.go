package metrics

import (
	"fmt"
	"strings"

	"github.com/kilianp07/fleetalloc/core/factory"
)

// nopType names the sink that records nothing. It is dropped from sink lists.
const nopType = "nop"

var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink adds a metrics sink factory identified by name.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(sinkType(name), f)
}

// SinkTypes lists the registered sink types in sorted order.
func SinkTypes() []string {
	return sinkRegistry.Names()
}

// NewMetricsSink builds the allocation metrics sink for the configured list.
// Types are matched case-insensitively and nop entries are skipped. With no
// remaining sink the result is NopSink; two or more are wrapped in a MultiSink.
func NewMetricsSink(cfgs []factory.ModuleConfig) (MetricsSink, error) {
	var sinks []MetricsSink
	for i, c := range cfgs {
		c.Type = sinkType(c.Type)
		if c.Type == "" {
			return nil, fmt.Errorf("metrics sink %d: missing type", i)
		}
		if c.Type == nopType {
			continue
		}
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, fmt.Errorf("metrics sink %d (%s): %w", i, c.Type, err)
		}
		sinks = append(sinks, s)
	}
	switch len(sinks) {
	case 0:
		return NopSink{}, nil
	case 1:
		return sinks[0], nil
	}
	return NewMultiSink(sinks...), nil
}

func sinkType(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
