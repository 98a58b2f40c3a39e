package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kilianp07/fleetalloc/core/model"
)

// ID accepts either a JSON string or a JSON number.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// StringList accepts either a JSON string or an array of strings.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	*l = list
	return nil
}

// RawVehicle is a vehicle record as uploaded. Nil fields are absent.
type RawVehicle struct {
	ID             *ID          `json:"id,omitempty"`
	Capacity       *float64     `json:"capacity,omitempty"`
	EnergyCapacity *float64     `json:"energy_capacity,omitempty"`
	Location       *model.Point `json:"location,omitempty"`
	Speed          *float64     `json:"speed,omitempty"`
	VehicleType    *string      `json:"vehicle_type,omitempty"`
	Capabilities   StringList   `json:"capabilities,omitempty"`
}

// RawTask is a task record as uploaded. Nil fields are absent.
type RawTask struct {
	ID              *ID               `json:"id,omitempty"`
	Location        *model.Point      `json:"location,omitempty"`
	Demand          *float64          `json:"demand,omitempty"`
	TimeWindow      *model.TimeWindow `json:"time_window,omitempty"`
	ServiceTime     *float64          `json:"service_time,omitempty"`
	EstimatedEnergy *float64          `json:"estimated_energy,omitempty"`
	Priority        *int              `json:"priority,omitempty"`
	TaskType        *string           `json:"task_type,omitempty"`
	RequiredUAVs    *int              `json:"required_uavs,omitempty"`
}

// Scenario is the uploaded configuration document.
type Scenario struct {
	Vehicles []RawVehicle `json:"vehicles"`
	Tasks    []RawTask    `json:"tasks"`
}
