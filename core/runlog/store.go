// Package runlog persists one record per allocation run and answers
// time and vehicle scoped queries over them.
package runlog

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/fleetalloc/core/allocation"
)

// Record captures one allocation run.
type Record struct {
	ID          string              `json:"id"`
	Timestamp   time.Time           `json:"timestamp"`
	Vehicles    int                 `json:"vehicles"`
	Tasks       int                 `json:"tasks"`
	Rounds      int                 `json:"rounds"`
	Truncated   bool                `json:"truncated,omitempty"`
	Assignments map[string][]string `json:"assignments"`
	Unallocated []string            `json:"unallocated"`
	Alerts      []allocation.Alert  `json:"alerts"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// NewRecord summarizes rep into a record stamped at ts with a fresh id.
func NewRecord(rep allocation.Report, ts time.Time) Record {
	un := make([]string, 0, len(rep.Unallocated))
	for _, t := range rep.Unallocated {
		un = append(un, t.ID)
	}
	return Record{
		ID:          uuid.NewString(),
		Timestamp:   ts.UTC(),
		Vehicles:    rep.Summary.Vehicles,
		Tasks:       rep.Summary.Tasks,
		Rounds:      rep.Result.Rounds,
		Truncated:   rep.Result.Truncated,
		Assignments: rep.Result.Assignments.Clone(),
		Unallocated: un,
		Alerts:      slices.Clone(rep.Alerts),
		Warnings:    slices.Clone(rep.Warnings),
	}
}

// Mentions reports whether the run involved vehicleID, either as an
// assignee or through an alert.
func (r Record) Mentions(vehicleID string) bool {
	if _, ok := r.Assignments[vehicleID]; ok {
		return true
	}
	for _, a := range r.Alerts {
		if a.Vehicle == vehicleID {
			return true
		}
	}
	return false
}

// Query defines filters for retrieving records. Zero values match everything.
type Query struct {
	Start     time.Time
	End       time.Time
	VehicleID string
}

// Match applies every filter of q to r.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.VehicleID != "" && !r.Mentions(q.VehicleID) {
		return false
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
