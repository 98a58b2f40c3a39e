// Package events defines the events emitted on the allocation event bus.
//
// Available event types:
//   - AllocationEvent: a completed allocation run with its full report
package events
