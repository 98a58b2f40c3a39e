package mqtt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetalloc/core/allocation"
	"github.com/kilianp07/fleetalloc/core/events"
	"github.com/kilianp07/fleetalloc/core/model"
	coremqtt "github.com/kilianp07/fleetalloc/core/mqtt"
	"github.com/kilianp07/fleetalloc/infra/logger"
	"github.com/kilianp07/fleetalloc/internal/eventbus"
)

func sampleEvent() events.AllocationEvent {
	vehicles := []model.Vehicle{
		{ID: "v1", Capacity: 10, Speed: 5, VehicleType: model.TypeDelivery, Capabilities: model.Capabilities{model.TypeDelivery}},
		{ID: "v2", Capacity: 10, Speed: 5, VehicleType: model.TypeDelivery, Capabilities: model.Capabilities{model.TypeDelivery}},
	}
	tasks := []model.Task{
		{ID: "1", Demand: 3, Priority: 1, TaskType: model.TypeDelivery, TimeWindow: model.TimeWindow{End: 100}},
	}
	return events.AllocationEvent{RunID: "run-1", Time: time.Now(), Report: allocation.Run(vehicles, tasks, allocation.Options{})}
}

func TestPlansFromReport(t *testing.T) {
	ev := sampleEvent()
	plans := PlansFromReport(ev.RunID, ev.Report)
	require.Len(t, plans, 2)
	assert.Equal(t, "v1", plans[0].VehicleID)
	assert.Equal(t, []string{"1"}, plans[0].Tasks)
	assert.Equal(t, 7.0, plans[0].Remaining)
	assert.NotNil(t, plans[1].Tasks)
	assert.Empty(t, plans[1].Tasks)
}

func TestPublishCollectsFirstError(t *testing.T) {
	pub := NewMockPublisher()
	pub.FailIDs["v2"] = true
	err := Publish(context.Background(), pub, sampleEvent(), logger.NopLogger{})
	assert.Error(t, err)
	assert.Equal(t, 1, pub.PlanCount())
}

func TestStartForwarder(t *testing.T) {
	bus := eventbus.New[events.AllocationEvent]()
	pub := NewMockPublisher()
	ctx, cancel := context.WithCancel(context.Background())
	done := StartForwarder(ctx, bus, pub, nil)

	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	bus.Publish(sampleEvent())
	assert.Eventually(t, func() bool { return pub.PlanCount() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forwarder did not stop")
	}
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishPlan(ctx context.Context, p coremqtt.Plan) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *mockPublisher) PublishAlert(ctx context.Context, a coremqtt.Alert) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func TestPublishPlansAndAlerts(t *testing.T) {
	ev := sampleEvent()
	pub := &mockPublisher{}
	pub.On("PublishPlan", mock.Anything, mock.MatchedBy(func(p coremqtt.Plan) bool {
		return p.RunID == "run-1"
	})).Return("msg", nil).Twice()
	pub.On("PublishAlert", mock.Anything, coremqtt.Alert{
		RunID:     "run-1",
		VehicleID: "v2",
		Severity:  string(allocation.SeverityLow),
		Message:   allocation.MsgIdle,
	}).Return(nil).Once()

	require.NoError(t, Publish(context.Background(), pub, ev, logger.NopLogger{}))
	pub.AssertExpectations(t)
}
