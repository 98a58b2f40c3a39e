package allocation

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/fleetalloc/core/model"
)

// PriorityCount is one bar of the priority distribution.
type PriorityCount struct {
	Priority int `json:"priority"`
	Count    int `json:"count"`
}

// Summary aggregates fleet level figures for dashboards.
type Summary struct {
	Vehicles             int                `json:"vehicles"`
	Tasks                int                `json:"tasks"`
	Allocated            int                `json:"allocated"`
	Unallocated          int                `json:"unallocated"`
	TasksPerVehicle      map[string]int     `json:"tasks_per_vehicle"`
	Utilization          map[string]float64 `json:"utilization"`
	TotalRoute           float64            `json:"total_route"`
	MeanRoute            float64            `json:"mean_route"`
	MaxRoute             float64            `json:"max_route"`
	PriorityDistribution []PriorityCount    `json:"priority_distribution"`
}

// Summarize builds a Summary. Utilization is the assigned demand over
// capacity and is omitted for zero-capacity vehicles.
func Summarize(vehicles []model.Vehicle, tasks []model.Task, asn model.Assignment, routes map[string]float64) Summary {
	byID := model.IndexTasks(tasks)
	s := Summary{
		Vehicles:        len(vehicles),
		Tasks:           len(tasks),
		TasksPerVehicle: make(map[string]int, len(vehicles)),
		Utilization:     make(map[string]float64, len(vehicles)),
	}
	s.Allocated = len(asn.Allocated())
	s.Unallocated = len(Unallocated(tasks, asn))

	lengths := make([]float64, 0, len(vehicles))
	for _, v := range vehicles {
		ids := asn[v.ID]
		s.TasksPerVehicle[v.ID] = len(ids)
		lengths = append(lengths, routes[v.ID])
		if v.Capacity > 0 {
			demand := make([]float64, 0, len(ids))
			for _, id := range ids {
				demand = append(demand, byID[id].Demand)
			}
			s.Utilization[v.ID] = floats.Sum(demand) / v.Capacity
		}
	}
	if len(lengths) > 0 {
		s.TotalRoute = floats.Sum(lengths)
		s.MeanRoute = stat.Mean(lengths, nil)
		s.MaxRoute = floats.Max(lengths)
	}

	counts := make(map[int]int)
	for _, t := range tasks {
		counts[t.Priority]++
	}
	s.PriorityDistribution = make([]PriorityCount, 0, len(counts))
	for p, c := range counts {
		s.PriorityDistribution = append(s.PriorityDistribution, PriorityCount{Priority: p, Count: c})
	}
	sort.Slice(s.PriorityDistribution, func(i, j int) bool {
		return s.PriorityDistribution[i].Priority < s.PriorityDistribution[j].Priority
	})
	return s
}
