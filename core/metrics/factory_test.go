package metrics_test

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/kilianp07/fleetalloc/core/factory"
	metrics "github.com/kilianp07/fleetalloc/core/metrics"
	_ "github.com/kilianp07/fleetalloc/infra/metrics"
)

// Builtin sinks come from infra/metrics/factory.go.
func TestMetricsFactory_Builtins(t *testing.T) {
	s, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}})
	if err != nil {
		t.Fatalf("create nop: %v", err)
	}
	if s == nil {
		t.Fatal("expected sink instance")
	}
	_, err = metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "missing"}})
	if !errors.Is(err, factory.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

type captureSink struct{ runs []metrics.AllocationRun }

func (c *captureSink) RecordAllocation(run metrics.AllocationRun) error {
	c.runs = append(c.runs, run)
	return nil
}

func init() {
	_ = metrics.RegisterMetricsSink("capture", func(map[string]any) (metrics.MetricsSink, error) {
		return &captureSink{}, nil
	})
	_ = metrics.RegisterMetricsSink("broken", func(map[string]any) (metrics.MetricsSink, error) {
		return nil, errors.New("no endpoint")
	})
}

func TestNewMetricsSink_Multi(t *testing.T) {
	s, err := metrics.NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("create nop default: %v", err)
	}
	if _, ok := s.(metrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	var cfg metrics.Config
	if err := json.Unmarshal([]byte(`{"sinks":[{"type":"nop"},{"type":"capture"},{"type":" Capture "}]}`), &cfg); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	s, err = metrics.NewMetricsSink(cfg.Sinks)
	if err != nil {
		t.Fatalf("create multi: %v", err)
	}
	m, ok := s.(*metrics.MultiSink)
	if !ok {
		t.Fatalf("expected MultiSink, got %T", s)
	}
	if len(m.Sinks) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(m.Sinks))
	}
}

func TestNewMetricsSink_NopOnly(t *testing.T) {
	s, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "NOP"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := s.(metrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}
}

func TestNewMetricsSink_Errors(t *testing.T) {
	_, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "capture"}, {Type: "broken"}})
	if err == nil || !strings.Contains(err.Error(), "metrics sink 1 (broken): no endpoint") {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "statsd"}})
	if !errors.Is(err, factory.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if !strings.Contains(err.Error(), "influx") || !strings.Contains(err.Error(), "prometheus") {
		t.Fatalf("error should list known types: %v", err)
	}

	_, err = metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "  "}})
	if err == nil || !strings.Contains(err.Error(), "missing type") {
		t.Fatalf("expected missing type error, got %v", err)
	}
}

func TestSinkTypes(t *testing.T) {
	types := metrics.SinkTypes()
	for _, want := range []string{"influx", "nop", "prometheus"} {
		if !slices.Contains(types, want) {
			t.Fatalf("SinkTypes() = %v, missing %s", types, want)
		}
	}
}
