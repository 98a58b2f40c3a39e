package metrics

import "github.com/kilianp07/fleetalloc/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddress serves /metrics when the API server is not running.
	PrometheusAddress string `json:"prometheus_address"`
}
