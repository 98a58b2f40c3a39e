// Package infra groups the adapters behind the core ports: the zerolog
// logger, the Prometheus and InfluxDB metrics sinks and the MQTT plan
// publisher. Adapters import core packages, never the reverse.
package infra
