package allocation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/fleetalloc/core/model"
)

func deliveryVehicle(id string, capacity float64, x, y float64) model.Vehicle {
	return model.Vehicle{
		ID:           id,
		Capacity:     capacity,
		Location:     model.Point{X: x, Y: y},
		Speed:        5,
		VehicleType:  model.TypeDelivery,
		Capabilities: model.Capabilities{model.TypeDelivery},
	}
}

func deliveryTask(id string, demand float64, priority int, x, y float64) model.Task {
	return model.Task{
		ID:         id,
		Location:   model.Point{X: x, Y: y},
		Demand:     demand,
		TimeWindow: model.TimeWindow{Start: 0, End: 100},
		Priority:   priority,
		TaskType:   model.TypeDelivery,
	}
}

func TestScoreInfeasibleIffGateFails(t *testing.T) {
	v := deliveryVehicle("v1", 10, 0, 0)
	cases := []struct {
		name       string
		taskType   string
		demand     float64
		remaining  float64
		infeasible bool
	}{
		{"match and fits", model.TypeDelivery, 5, 10, false},
		{"exact fit", model.TypeDelivery, 10, 10, false},
		{"capability mismatch", model.TypeReconnaissance, 1, 10, true},
		{"over capacity", model.TypeDelivery, 11, 10, true},
		{"both gates fail", model.TypeStrike, 11, 10, true},
		{"zero remaining zero demand", model.TypeDelivery, 0, 0, false},
	}
	for _, c := range cases {
		task := deliveryTask("t", c.demand, 1, 3, 4)
		task.TaskType = c.taskType
		s := Score(v, task, c.remaining, 0)
		if IsFeasible(s) == c.infeasible {
			t.Errorf("%s: score %v infeasible=%v", c.name, s, !IsFeasible(s))
		}
	}
}

func TestScoreScenarioA(t *testing.T) {
	v := deliveryVehicle("v1", 100, 0, 0)
	t1 := deliveryTask("1", 50, 1, 10, 0)
	t2 := deliveryTask("2", 60, 5, 5, 0)
	assert.InDelta(t, 1000.0/11.0, ScoreFresh(v, t1), 1e-9)
	assert.InDelta(t, 5000.0/6.0, ScoreFresh(v, t2), 1e-9)
	assert.False(t, IsFeasible(Score(v, t1, 40, 0)), "T1 must not fit in 40 remaining")
}

func TestScoreScenarioBCapabilityMismatch(t *testing.T) {
	v := deliveryVehicle("recon", 1000, 0, 0)
	v.Capabilities = model.Capabilities{model.TypeReconnaissance}
	for _, d := range []float64{0, 1, 50, 1e6} {
		for _, p := range []int{1, 3, 5, 100} {
			task := deliveryTask("t", 1, p, d, 0)
			if IsFeasible(ScoreFresh(v, task)) {
				t.Fatalf("distance %v priority %d should be infeasible", d, p)
			}
		}
	}
}

func TestScoreScenarioCTimeWindowRatio(t *testing.T) {
	v := deliveryVehicle("v1", 10, 0, 0)
	v.Speed = 1
	task := deliveryTask("t", 1, 2, 5, 0)
	task.TimeWindow = model.TimeWindow{Start: 0, End: 10}
	onTime := Score(v, task, 10, 0) // arrival 5
	late := Score(v, task, 10, 10)  // arrival 15
	assert.InEpsilon(t, 10.0, onTime/late, 1e-12)
}

func TestTimeFactor(t *testing.T) {
	w := model.TimeWindow{Start: 10, End: 20}
	assert.Equal(t, 0.8, TimeFactor(5, w))
	assert.Equal(t, 1.0, TimeFactor(10, w))
	assert.Equal(t, 1.0, TimeFactor(20, w))
	assert.Equal(t, 0.1, TimeFactor(20.5, w))
}

func TestScoreZeroSpeedUsesFloor(t *testing.T) {
	v := deliveryVehicle("v1", 10, 0, 0)
	v.Speed = 0
	task := deliveryTask("t", 1, 1, 1, 0)
	task.TimeWindow = model.TimeWindow{Start: 50, End: 1000}
	// travel time 1/0.01 is about 100: inside the window.
	assert.InDelta(t, 500.0, ScoreFresh(v, task), 1e-9)
	task.TimeWindow = model.TimeWindow{Start: 0, End: 50}
	assert.InDelta(t, 50.0, ScoreFresh(v, task), 1e-9)
	v.Speed = -3
	assert.False(t, math.IsNaN(ScoreFresh(v, task)))
}

func TestInfeasibleSortsBelowFiniteScores(t *testing.T) {
	assert.Less(t, Infeasible, -math.MaxFloat64)
	assert.False(t, IsFeasible(Infeasible))
	assert.True(t, IsFeasible(0))
}
