package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetalloc/core/allocation"
	"github.com/kilianp07/fleetalloc/core/commlog"
	"github.com/kilianp07/fleetalloc/core/normalize"
)

const testScenario = `{
  "vehicles": [
    {"id": "v1", "capacity": 10, "location": [0, 0], "speed": 5},
    {"id": "v2", "capacity": 5, "location": [10, 10], "speed": 5}
  ],
  "tasks": [
    {"id": 1, "location": [1, 1], "demand": 4, "priority": 4, "time_window": [0, 100]},
    {"id": 2, "location": [9, 9], "demand": 3, "priority": 2, "time_window": [0, 100]},
    {"id": 3, "location": [5, 5], "demand": 20, "time_window": [0, 100]}
  ]
}`

const testLog = `{"events": [
 {"type":"mesh_message","sim_time":1.0,"from":"uav1","to":"uav2","message":{"message_type":"FORWARD_ANNOUNCEMENT","task_id":"t1","pickup":"e1","delivery":"e2","weight":3}},
 {"type":"mesh_message","sim_time":2.0,"from":"uav2","to":"uav1","message":{"message_type":"WINNER_DECISION","task_id":"t1","winner":"uav1","best":{"bid":4.5,"holder":"uav1"}}},
 {"type":"vehicle_status","sim_time":3.0,"agent":"uav1","battery":80,"current_edge":"e5","next_edge":"e6","current_task":"t1","assigned_tasks":["t1"]}
]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("K_RUNLOG__BACKEND", "memory")
	// Flags keep their values between runs of the shared root command.
	cfgPath, outFormat, withMatrix, strict = "", formatTable, false, false
	commVehicle, commFormat, commOut = commlog.AllVehicles, formatTable, ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAllocateJSON(t *testing.T) {
	sc := writeFile(t, "config.json", testScenario)
	out, err := execute(t, "allocate", "--scenario", sc, "--format", "json", "--matrix")
	require.NoError(t, err)

	var rep allocation.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, []string{"1"}, rep.Result.Assignments["v1"])
	assert.Equal(t, []string{"2"}, rep.Result.Assignments["v2"])
	require.NotNil(t, rep.Matrix)
	assert.Len(t, rep.Matrix.Cells, 2)
}

func TestAllocateTableAndCSV(t *testing.T) {
	sc := writeFile(t, "config.json", testScenario)
	out, err := execute(t, "allocate", "-s", sc)
	require.NoError(t, err)
	assert.Contains(t, out, "UNALLOCATED")
	assert.Contains(t, out, "T3")

	out, err = execute(t, "allocate", "-s", sc, "-f", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "vehicle,capacity,remaining,tasks,route\n"), out)
}

func TestAllocateStrictEmpty(t *testing.T) {
	sc := writeFile(t, "config.json", `{"vehicles": [{"id": "v1"}], "tasks": []}`)
	_, err := execute(t, "allocate", "-s", sc, "--strict")
	if !errors.Is(err, normalize.ErrEmptyScenario) {
		t.Fatalf("expected ErrEmptyScenario, got %v", err)
	}
	if _, err := execute(t, "allocate", "-s", sc); err != nil {
		t.Fatalf("non strict run failed: %v", err)
	}
}

func TestAllocateBadFormat(t *testing.T) {
	if _, err := execute(t, "allocate", "-f", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestGenerateThenAllocate(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "gen.json")
	_, err := execute(t, "generate", "--vehicles", "3", "--tasks", "10", "--seed", "5", "--out", dst)
	require.NoError(t, err)

	res, err := normalize.LoadFile(dst)
	require.NoError(t, err)
	assert.Len(t, res.Vehicles, 3)
	assert.Len(t, res.Tasks, 10)

	out, err := execute(t, "allocate", "-s", dst, "-f", "json")
	require.NoError(t, err)
	var rep allocation.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 10, rep.Summary.Tasks)
}

func TestCommParse(t *testing.T) {
	lp := writeFile(t, "log.json", testLog)
	out, err := execute(t, "comm", "parse", "--log", lp, "--format", "json", "--vehicle", "uav1")
	require.NoError(t, err)

	var p commlog.Parsed
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Len(t, p.Announcements, 1)
	assert.Len(t, p.Winners, 1)
	assert.Len(t, p.Statuses, 1)

	out, err = execute(t, "comm", "parse", "--log", lp)
	require.NoError(t, err)
	assert.Contains(t, out, "WINNERS (1)")
}

func TestCommSynth(t *testing.T) {
	lp := writeFile(t, "log.json", testLog)
	sc := writeFile(t, "config.json", testScenario)
	dst := filepath.Join(t.TempDir(), "out.json")
	_, err := execute(t, "comm", "synth", "--log", lp, "--scenario", sc, "--out", dst)
	require.NoError(t, err)

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	l, err := commlog.Load(f)
	require.NoError(t, err)
	// v1->v2 and v2->v1 are added for the single announced task.
	assert.Len(t, l.Events, 5)
	p := commlog.Parse(l.Events)
	assert.Len(t, p.Announcements, 3)
}
