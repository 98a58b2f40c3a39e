package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/fleetalloc/core/metrics"
	"github.com/kilianp07/fleetalloc/infra/logger"
)

// InfluxConfig configures the InfluxDB sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes allocation records to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

func (s *InfluxSink) write(points ...*write.Point) error {
	if len(points) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordAllocation writes one allocation_run point.
func (s *InfluxSink) RecordAllocation(run coremetrics.AllocationRun) error {
	p := write.NewPointWithMeasurement("allocation_run").
		AddTag("run_id", run.RunID).
		AddTag("truncated", strconv.FormatBool(run.Truncated)).
		AddField("vehicles", run.Vehicles).
		AddField("tasks", run.Tasks).
		AddField("allocated", run.Allocated).
		AddField("unallocated", run.Unallocated).
		AddField("rounds", run.Rounds).
		AddField("total_route", round3(run.TotalRoute)).
		AddField("duration_ms", round3(run.Duration.Seconds()*1000)).
		SetTime(run.Time)
	return s.write(p)
}

// RecordVehicleLoads writes one vehicle_load point per vehicle.
func (s *InfluxSink) RecordVehicleLoads(loads []coremetrics.VehicleLoad) error {
	points := make([]*write.Point, 0, len(loads))
	for _, l := range loads {
		points = append(points, write.NewPointWithMeasurement("vehicle_load").
			AddTag("run_id", l.RunID).
			AddTag("vehicle_id", l.VehicleID).
			AddField("tasks", l.Tasks).
			AddField("capacity", round3(l.Capacity)).
			AddField("remaining", round3(l.Remaining)).
			AddField("route_length", round3(l.RouteLength)).
			SetTime(l.Time))
	}
	return s.write(points...)
}

// RecordAlert writes an allocation_alert point.
func (s *InfluxSink) RecordAlert(ev coremetrics.AlertEvent) error {
	p := write.NewPointWithMeasurement("allocation_alert").
		AddTag("run_id", ev.RunID).
		AddTag("vehicle_id", ev.VehicleID).
		AddTag("severity", string(ev.Severity)).
		AddField("message", ev.Message).
		SetTime(ev.Time)
	return s.write(p)
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
