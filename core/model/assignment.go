package model

import "slices"

// Assignment maps a vehicle id to the ids of its tasks in assignment order.
// A task id appears in at most one list.
type Assignment map[string][]string

// Tasks returns the task ids assigned to the vehicle.
func (a Assignment) Tasks(vehicleID string) []string { return a[vehicleID] }

// Allocated returns the set of task ids present in any list.
func (a Assignment) Allocated() map[string]struct{} {
	set := make(map[string]struct{})
	for _, ids := range a {
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}
	return set
}

// Count returns the number of assigned tasks.
func (a Assignment) Count() int {
	n := 0
	for _, ids := range a {
		n += len(ids)
	}
	return n
}

// VehicleOf returns the vehicle holding taskID.
func (a Assignment) VehicleOf(taskID string) (string, bool) {
	for vid, ids := range a {
		if slices.Contains(ids, taskID) {
			return vid, true
		}
	}
	return "", false
}

// Clone returns a deep copy.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		out[k] = slices.Clone(v)
	}
	return out
}
