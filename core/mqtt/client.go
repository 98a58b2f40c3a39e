package mqtt

import "context"

// Plan is the task list sent to one vehicle after a run.
type Plan struct {
	RunID     string   `json:"run_id"`
	VehicleID string   `json:"vehicle_id"`
	Tasks     []string `json:"tasks"`
	Stops     []string `json:"stops"`
	Route     float64  `json:"route_length"`
	Remaining float64  `json:"remaining_capacity"`
}

// Alert is an operational alert published for one vehicle.
type Alert struct {
	RunID     string `json:"run_id"`
	VehicleID string `json:"vehicle_id"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
}

// Publisher delivers allocation results to vehicles over a message broker.
type Publisher interface {
	// PublishPlan sends the plan to the vehicle's task topic and returns the
	// message identifier.
	PublishPlan(ctx context.Context, p Plan) (messageID string, err error)

	// PublishAlert sends an alert to the vehicle's alert topic.
	PublishAlert(ctx context.Context, a Alert) error
}
