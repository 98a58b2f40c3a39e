package model

import (
	"encoding/json"
	"fmt"
)

// TimeWindow is the interval [Start, End] within which arrival is on time.
// It is encoded as [start, end] in JSON.
type TimeWindow struct {
	Start float64
	End   float64
}

// Contains reports whether t lies inside the window, bounds included.
func (w TimeWindow) Contains(t float64) bool {
	return t >= w.Start && t <= w.End
}

// MarshalJSON encodes the window as a two element array.
func (w TimeWindow) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{w.Start, w.End})
}

// UnmarshalJSON decodes a two element array.
func (w *TimeWindow) UnmarshalJSON(data []byte) error {
	var se []float64
	if err := json.Unmarshal(data, &se); err != nil {
		return fmt.Errorf("time window: %w", err)
	}
	if len(se) != 2 {
		return fmt.Errorf("time window: expected 2 bounds, got %d", len(se))
	}
	w.Start, w.End = se[0], se[1]
	return nil
}

// Task is a normalized delivery or recon job.
type Task struct {
	ID              string     `json:"id"`
	Location        Point      `json:"location"`
	Demand          float64    `json:"demand"`
	TimeWindow      TimeWindow `json:"time_window"`
	ServiceTime     float64    `json:"service_time"`
	EstimatedEnergy float64    `json:"estimated_energy"`
	Priority        int        `json:"priority"`
	TaskType        string     `json:"task_type"`
	RequiredUAVs    int        `json:"required_uavs"`
}

// Label is the display name used in tables and notifications.
func (t Task) Label() string { return "T" + t.ID }

// IndexTasks maps task ids to tasks. Later duplicates overwrite earlier ones.
func IndexTasks(tasks []Task) map[string]Task {
	idx := make(map[string]Task, len(tasks))
	for _, t := range tasks {
		idx[t.ID] = t
	}
	return idx
}
