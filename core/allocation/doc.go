// Package allocation assigns tasks to vehicles with a greedy global-best
// heuristic and derives route estimates, alerts and notifications from the
// result.
//
// Every call works on a snapshot: the vehicle and task slices passed in are
// never mutated, remaining capacity is tracked in the returned Result.
// Concurrent runs over the same inputs are therefore safe.
package allocation
