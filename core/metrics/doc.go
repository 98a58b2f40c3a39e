// Package metrics defines the sink interfaces used to export allocation
// outcomes. Sinks like PromSink and InfluxSink record runs, per-vehicle load
// and alerts and can be combined with NewMultiSink. The factory helpers
// return a MultiSink automatically when multiple sinks are configured.
package metrics
