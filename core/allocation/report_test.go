package allocation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetalloc/core/model"
)

func sampleFleet() ([]model.Vehicle, []model.Task) {
	recon := deliveryVehicle("r1", 20, 50, 50)
	recon.VehicleType = model.TypeReconnaissance
	recon.Capabilities = model.Capabilities{model.TypeReconnaissance}
	vehicles := []model.Vehicle{deliveryVehicle("d1", 100, 0, 0), recon}
	scout := deliveryTask("3", 5, 4, 55, 50)
	scout.TaskType = model.TypeReconnaissance
	tasks := []model.Task{
		deliveryTask("1", 50, 1, 10, 0),
		deliveryTask("2", 60, 5, 5, 0),
		scout,
	}
	return vehicles, tasks
}

func TestRunBuildsRows(t *testing.T) {
	vehicles, tasks := sampleFleet()
	rep := Run(vehicles, tasks, Options{})
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, Row{Vehicle: "d1", Capacity: 100, Remaining: 40, Tasks: "T2", Route: 5}, rep.Rows[0])
	assert.Equal(t, "T3", rep.Rows[1].Tasks)
	require.Len(t, rep.Unallocated, 1)
	assert.Equal(t, "1", rep.Unallocated[0].ID)
	assert.Len(t, rep.Notifications, 3)

	assert.Equal(t, 2, rep.Summary.Vehicles)
	assert.Equal(t, 2, rep.Summary.Allocated)
	assert.Equal(t, 1, rep.Summary.Unallocated)
	assert.InDelta(t, 10.0, rep.Summary.TotalRoute, 1e-9)
	assert.InDelta(t, 5.0, rep.Summary.MeanRoute, 1e-9)
	assert.InDelta(t, 0.6, rep.Summary.Utilization["d1"], 1e-9)
	assert.Equal(t, []PriorityCount{{1, 1}, {4, 1}, {5, 1}}, rep.Summary.PriorityDistribution)
}

func TestRunReportEncodesJSON(t *testing.T) {
	vehicles, tasks := sampleFleet()
	rep := Run(vehicles, tasks, Options{})
	m := NewCostMatrix(vehicles, tasks)
	rep.Matrix = &m
	b, err := json.Marshal(rep)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `"cells":[[`))
	assert.NotContains(t, string(b), "Inf")
}

func TestCostMatrix(t *testing.T) {
	vehicles, tasks := sampleFleet()
	m := NewCostMatrix(vehicles, tasks)
	assert.Equal(t, []string{"d1", "r1"}, m.Vehicles)
	assert.Equal(t, []string{"T1", "T2", "T3"}, m.Tasks)
	assert.Equal(t, "90.9", m.Cells[0][0].String())
	assert.Equal(t, "833.3", m.Cells[0][1].String())
	assert.Equal(t, "−∞", m.Cells[0][2].String())
	assert.False(t, m.Cells[1][0].Feasible())
	b, err := json.Marshal(m.Cells[1])
	require.NoError(t, err)
	assert.Equal(t, "[null,null,", string(b)[:11])
}

func TestSummaryEmpty(t *testing.T) {
	s := Summarize(nil, nil, model.Assignment{}, nil)
	assert.Zero(t, s.MeanRoute)
	assert.Zero(t, s.MaxRoute)
	assert.Empty(t, s.PriorityDistribution)
}

func TestAllocationMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	ResetMetrics(reg)
	defer ResetMetrics(nil)

	vehicles, tasks := sampleFleet()
	Allocate(vehicles, tasks)
	assert.Equal(t, 2.0, testutil.ToFloat64(roundsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(unassignedTasks))

	NewAllocator(Options{MaxRounds: 1}).Allocate(vehicles, tasks)
	assert.Equal(t, 1.0, testutil.ToFloat64(truncatedRuns))
	assert.Equal(t, 1, testutil.CollectAndCount(runLatency))
}
