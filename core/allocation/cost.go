package allocation

import (
	"math"

	"github.com/kilianp07/fleetalloc/core/model"
)

const (
	// MinSpeed floors the vehicle speed when computing travel time.
	MinSpeed = 0.01

	baseScale      = 1000.0
	capacityFactor = 1.0

	onTimeFactor = 1.0
	earlyFactor  = 0.8
	lateFactor   = 0.1
)

// Infeasible is the score of a pair that fails the capability or capacity
// gate. It compares below every finite score.
var Infeasible = math.Inf(-1)

// IsFeasible reports whether score denotes a feasible pair.
func IsFeasible(score float64) bool { return !math.IsInf(score, -1) }

// Score rates assigning t to v given the vehicle's remaining capacity and the
// current time. Higher is better. Pairs failing the capability check or whose
// demand exceeds remaining yield Infeasible.
func Score(v model.Vehicle, t model.Task, remaining, currentTime float64) float64 {
	if !v.Capabilities.Has(t.TaskType) {
		return Infeasible
	}
	if t.Demand > remaining {
		return Infeasible
	}
	distance := v.Location.Distance(t.Location)
	base := baseScale / (1 + distance)
	arrival := currentTime + distance/math.Max(v.Speed, MinSpeed)
	// capacityFactor stays 1.0: over-capacity pairs were rejected above.
	return base * float64(t.Priority) * capacityFactor * TimeFactor(arrival, t.TimeWindow)
}

// ScoreFresh scores the pair against the vehicle's full capacity at time zero.
func ScoreFresh(v model.Vehicle, t model.Task) float64 {
	return Score(v, t, v.Capacity, 0)
}

// TimeFactor returns the time-window multiplier for an arrival time.
func TimeFactor(arrival float64, w model.TimeWindow) float64 {
	switch {
	case arrival > w.End:
		return lateFactor
	case arrival < w.Start:
		return earlyFactor
	default:
		return onTimeFactor
	}
}
