package allocation

import (
	"slices"
	"sort"
	"time"

	"github.com/kilianp07/fleetalloc/core/logger"
	"github.com/kilianp07/fleetalloc/core/model"
)

// Options tunes an allocation run.
type Options struct {
	// CurrentTime is the clock value used for arrival estimates.
	CurrentTime float64 `json:"current_time"`
	// MaxRounds caps the number of assignment rounds. Zero means no cap.
	// A capped run returns the partial assignment built so far.
	MaxRounds int `json:"max_rounds"`
	// Logger receives one debug entry per round when set.
	Logger logger.Logger `json:"-"`
}

// Result is the output of an allocation run.
type Result struct {
	// Assignments holds an entry for every vehicle, possibly empty.
	Assignments model.Assignment `json:"assignments"`
	// Remaining is the capacity left on each vehicle after the run.
	Remaining map[string]float64 `json:"remaining"`
	// Rounds is the number of tasks assigned.
	Rounds int `json:"rounds"`
	// Truncated is set when MaxRounds stopped the run while feasible
	// pairs may still have existed.
	Truncated bool `json:"truncated"`
}

// Allocator runs the greedy global-best matching.
type Allocator struct {
	opts Options
}

// NewAllocator returns an allocator using opts.
func NewAllocator(opts Options) *Allocator {
	return &Allocator{opts: opts}
}

// Allocate runs the default allocator over vehicles and tasks.
func Allocate(vehicles []model.Vehicle, tasks []model.Task) Result {
	return NewAllocator(Options{}).Allocate(vehicles, tasks)
}

// Allocate repeatedly assigns the single highest scoring feasible
// (vehicle, task) pair until no feasible pair remains.
//
// Pairs are enumerated by vehicle id then task id, both ascending, and a pair
// only replaces the current best when its score is strictly greater, so ties
// go to the first pair in that order. Ids compare as strings, byte by byte:
// numeric ids are not ordered by value, so task "10" precedes task "9" and
// wins a tie against it. Capacity consumed in one round affects feasibility
// in the next; earlier assignments are never reconsidered.
func (a *Allocator) Allocate(vehicles []model.Vehicle, tasks []model.Task) Result {
	start := time.Now()
	res := Result{
		Assignments: make(model.Assignment, len(vehicles)),
		Remaining:   make(map[string]float64, len(vehicles)),
	}
	fleet := slices.Clone(vehicles)
	sort.SliceStable(fleet, func(i, j int) bool { return fleet[i].ID < fleet[j].ID })
	for _, v := range fleet {
		res.Assignments[v.ID] = []string{}
		res.Remaining[v.ID] = v.Capacity
	}

	byID := model.IndexTasks(tasks)
	pool := make([]string, 0, len(byID))
	for id := range byID {
		pool = append(pool, id)
	}
	sort.Strings(pool)

	for len(pool) > 0 {
		if a.opts.MaxRounds > 0 && res.Rounds >= a.opts.MaxRounds {
			res.Truncated = true
			break
		}
		best := Infeasible
		bestVehicle, bestTask := -1, -1
		for vi, v := range fleet {
			rem := res.Remaining[v.ID]
			for ti, tid := range pool {
				s := Score(v, byID[tid], rem, a.opts.CurrentTime)
				if s > best {
					best = s
					bestVehicle, bestTask = vi, ti
				}
			}
		}
		if bestVehicle < 0 {
			break
		}
		v := fleet[bestVehicle]
		t := byID[pool[bestTask]]
		res.Assignments[v.ID] = append(res.Assignments[v.ID], t.ID)
		res.Remaining[v.ID] -= t.Demand
		pool = slices.Delete(pool, bestTask, bestTask+1)
		res.Rounds++
		if a.opts.Logger != nil {
			a.opts.Logger.Debugw("allocation round", map[string]any{
				"round":     res.Rounds,
				"vehicle":   v.ID,
				"task":      t.ID,
				"score":     best,
				"remaining": res.Remaining[v.ID],
			})
		}
	}

	observeRun(res, len(pool), time.Since(start))
	return res
}
