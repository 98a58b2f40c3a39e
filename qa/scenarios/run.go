package scenarios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetalloc/core/allocation"
	"github.com/kilianp07/fleetalloc/core/normalize"
)

// RunScenario allocates the fixture and checks it against its expectation.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	in, err := sc.Input()
	require.NoError(t, err)
	norm := normalize.Normalize(in)
	rep := allocation.Run(norm.Vehicles, norm.Tasks, sc.Options())

	exp := sc.Expected
	assert.Len(t, norm.Warnings, exp.Warnings, "warnings: %v", norm.Warnings)
	for vid, want := range exp.Assignments {
		got, ok := rep.Result.Assignments[vid]
		if !assert.True(t, ok, "vehicle %s missing", vid) {
			continue
		}
		if want == nil {
			want = []string{}
		}
		assert.Equal(t, want, got, "assignments of %s", vid)
	}

	un := make([]string, 0, len(rep.Unallocated))
	for _, task := range rep.Unallocated {
		un = append(un, task.ID)
	}
	want := exp.Unallocated
	if want == nil {
		want = []string{}
	}
	assert.Equal(t, want, un, "unallocated")

	alerts := make([]AlertDef, 0, len(rep.Alerts))
	for _, a := range rep.Alerts {
		alerts = append(alerts, AlertDef{Vehicle: a.Vehicle, Severity: string(a.Severity)})
	}
	wantAlerts := exp.Alerts
	if wantAlerts == nil {
		wantAlerts = []AlertDef{}
	}
	assert.Equal(t, wantAlerts, alerts, "alerts")

	for vid, route := range exp.Routes {
		assert.InDelta(t, route, rep.RouteLengths[vid], 1e-6, "route of %s", vid)
	}
}
