package simulator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetalloc/core/allocation"
	"github.com/kilianp07/fleetalloc/core/model"
	"github.com/kilianp07/fleetalloc/core/normalize"
)

func generate(t *testing.T, cfg Config) normalize.Scenario {
	t.Helper()
	g, err := New(cfg)
	require.NoError(t, err)
	return g.Generate()
}

func TestGeneratorDeterministic(t *testing.T) {
	cfg := Config{Vehicles: 5, Tasks: 12, ReconShare: 0.3, StrikeShare: 0.1, SparseShare: 0.2, Seed: 42}
	a, err := json.Marshal(generate(t, cfg))
	require.NoError(t, err)
	b, err := json.Marshal(generate(t, cfg))
	require.NoError(t, err)
	if string(a) != string(b) {
		t.Fatalf("expected deterministic generation")
	}
	cfg.Seed = 43
	c, err := json.Marshal(generate(t, cfg))
	require.NoError(t, err)
	assert.NotEqual(t, string(a), string(c))
}

func TestGeneratorRoundTrip(t *testing.T) {
	sc := generate(t, Config{Vehicles: 3, Tasks: 8, StrikeShare: 0.5, SparseShare: 0.3, Seed: 7})
	data, err := json.Marshal(sc)
	require.NoError(t, err)
	back, err := normalize.LoadScenario(strings.NewReader(string(data)))
	require.NoError(t, err)
	require.Len(t, back.Vehicles, 3)
	require.Len(t, back.Tasks, 8)
	assert.Equal(t, normalize.ID("uav001"), *back.Vehicles[0].ID)

	res := normalize.Normalize(back)
	strikes := 0
	for _, rt := range sc.Tasks {
		if *rt.TaskType == model.TypeStrike {
			strikes++
		}
	}
	assert.Len(t, res.Warnings, strikes)
	assert.Len(t, res.Tasks, 8-strikes)
}

func TestConfigValidate(t *testing.T) {
	bad := []Config{
		{Vehicles: -1},
		{ReconShare: 1.5},
		{ReconShare: 0.6, StrikeShare: 0.6},
	}
	for _, cfg := range bad {
		if _, err := New(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

// Allocation invariants over many random fleets.
func TestAllocationInvariants(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		sc := generate(t, Config{Vehicles: 6, Tasks: 25, ReconShare: 0.3, StrikeShare: 0.1, SparseShare: 0.1, Seed: seed})
		norm := normalize.Normalize(sc)
		rep := allocation.Run(norm.Vehicles, norm.Tasks, allocation.Options{})

		tasks := model.IndexTasks(norm.Tasks)
		seen := map[string]string{}
		for _, v := range norm.Vehicles {
			ids, ok := rep.Result.Assignments[v.ID]
			if !ok {
				t.Fatalf("seed %d: vehicle %s missing from assignments", seed, v.ID)
			}
			load := 0.0
			for _, id := range ids {
				if other, dup := seen[id]; dup {
					t.Fatalf("seed %d: task %s assigned to %s and %s", seed, id, other, v.ID)
				}
				seen[id] = v.ID
				task := tasks[id]
				if !v.Capabilities.Has(task.TaskType) {
					t.Fatalf("seed %d: %s cannot serve %s", seed, v.ID, task.TaskType)
				}
				load += task.Demand
			}
			if load > v.Capacity+1e-9 {
				t.Fatalf("seed %d: %s loaded %.2f over capacity %.2f", seed, v.ID, load, v.Capacity)
			}
			if rep.Result.Remaining[v.ID] < -1e-9 {
				t.Fatalf("seed %d: negative remaining for %s", seed, v.ID)
			}
		}
		if len(seen)+len(rep.Unallocated) != len(norm.Tasks) {
			t.Fatalf("seed %d: %d allocated + %d unallocated != %d tasks",
				seed, len(seen), len(rep.Unallocated), len(norm.Tasks))
		}
	}
}
