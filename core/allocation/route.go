package allocation

import (
	"sort"

	"github.com/kilianp07/fleetalloc/core/model"
)

// RouteOrder returns the assigned tasks of v sorted by their distance from the
// vehicle's starting location. The sort is done once against the origin; it is
// not a nearest-neighbour chain. Ids missing from byID are skipped.
func RouteOrder(v model.Vehicle, byID map[string]model.Task, ids []string) []model.Task {
	stops := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			stops = append(stops, t)
		}
	}
	sort.SliceStable(stops, func(i, j int) bool {
		return v.Location.Distance(stops[i].Location) < v.Location.Distance(stops[j].Location)
	})
	return stops
}

// RouteLength walks the RouteOrder of v starting at its location and returns
// the summed leg distances. A vehicle without tasks has length 0.
func RouteLength(v model.Vehicle, byID map[string]model.Task, ids []string) float64 {
	total := 0.0
	curr := v.Location
	for _, t := range RouteOrder(v, byID, ids) {
		total += curr.Distance(t.Location)
		curr = t.Location
	}
	return total
}

// RouteLengths estimates the route length of every vehicle.
func RouteLengths(vehicles []model.Vehicle, tasks []model.Task, asn model.Assignment) map[string]float64 {
	byID := model.IndexTasks(tasks)
	out := make(map[string]float64, len(vehicles))
	for _, v := range vehicles {
		out[v.ID] = RouteLength(v, byID, asn[v.ID])
	}
	return out
}
