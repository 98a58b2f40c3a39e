package mqtt

import (
	"context"
	"fmt"
	"sync"

	coremqtt "github.com/kilianp07/fleetalloc/core/mqtt"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// MockPublisher records plans and alerts in memory. Vehicles listed in
// FailIDs make publishing fail.
type MockPublisher struct {
	mu      sync.Mutex
	Plans   map[string]coremqtt.Plan
	Alerts  []coremqtt.Alert
	FailIDs map[string]bool
	seq     int
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Plans:   make(map[string]coremqtt.Plan),
		FailIDs: make(map[string]bool),
	}
}

func (m *MockPublisher) PublishPlan(_ context.Context, p coremqtt.Plan) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[p.VehicleID] {
		return "", fmt.Errorf("publish failed for %s", p.VehicleID)
	}
	m.seq++
	m.Plans[p.VehicleID] = p
	return fmt.Sprintf("msg-%d", m.seq), nil
}

func (m *MockPublisher) PublishAlert(_ context.Context, a coremqtt.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[a.VehicleID] {
		return fmt.Errorf("publish failed for %s", a.VehicleID)
	}
	m.Alerts = append(m.Alerts, a)
	return nil
}

// PlanCount returns the number of distinct vehicles that received a plan.
func (m *MockPublisher) PlanCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Plans)
}
