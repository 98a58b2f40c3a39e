package allocation

import (
	"strings"

	"github.com/kilianp07/fleetalloc/core/model"
)

// Row is the per-vehicle line of the allocation table.
type Row struct {
	Vehicle   string  `json:"vehicle"`
	Capacity  float64 `json:"capacity"`
	Remaining float64 `json:"remaining"`
	Tasks     string  `json:"tasks"`
	Route     float64 `json:"route"`
}

// Report bundles an allocation with everything derived from it.
type Report struct {
	RunID         string             `json:"run_id,omitempty"`
	Result        Result             `json:"result"`
	RouteLengths  map[string]float64 `json:"route_lengths"`
	Rows          []Row              `json:"rows"`
	Alerts        []Alert            `json:"alerts"`
	Notifications []Notification     `json:"notifications"`
	Unallocated   []model.Task       `json:"unallocated"`
	Summary       Summary            `json:"summary"`
	Matrix        *CostMatrix        `json:"matrix,omitempty"`
	Warnings      []string           `json:"warnings,omitempty"`
}

// Run allocates and derives the full report. Inputs are read only.
func Run(vehicles []model.Vehicle, tasks []model.Task, opts Options) Report {
	res := NewAllocator(opts).Allocate(vehicles, tasks)
	routes := RouteLengths(vehicles, tasks, res.Assignments)
	rep := Report{
		Result:        res,
		RouteLengths:  routes,
		Rows:          make([]Row, 0, len(vehicles)),
		Alerts:        Alerts(vehicles, tasks, res.Assignments, res.Remaining),
		Notifications: Notifications(tasks),
		Unallocated:   Unallocated(tasks, res.Assignments),
		Summary:       Summarize(vehicles, tasks, res.Assignments, routes),
	}
	byID := model.IndexTasks(tasks)
	for _, v := range vehicles {
		rep.Rows = append(rep.Rows, Row{
			Vehicle:   v.ID,
			Capacity:  v.Capacity,
			Remaining: res.Remaining[v.ID],
			Tasks:     taskLabels(byID, res.Assignments[v.ID]),
			Route:     routes[v.ID],
		})
	}
	return rep
}

func taskLabels(byID map[string]model.Task, ids []string) string {
	if len(ids) == 0 {
		return "None"
	}
	labels := make([]string, len(ids))
	for i, id := range ids {
		if t, ok := byID[id]; ok {
			labels[i] = t.Label()
		} else {
			labels[i] = "T" + id
		}
	}
	return strings.Join(labels, ", ")
}
