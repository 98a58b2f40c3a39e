// Package normalize turns uploaded vehicle and task records into the
// validated model types consumed by the allocator. Defaults are applied here
// and nowhere else.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kilianp07/fleetalloc/core/model"
)

// Defaults applied to absent fields.
const (
	DefaultCapacity       = 0.0
	DefaultEnergyCapacity = 100.0
	DefaultSpeed          = 5.0
	DefaultVehicleType    = model.TypeDelivery
	DefaultTaskType       = model.TypeDelivery
	DefaultPriority       = 1
	DefaultRequiredUAVs   = 1
)

// ErrEmptyScenario is returned when a scenario holds no vehicles or no tasks
// after normalization.
var ErrEmptyScenario = errors.New("normalize: scenario has no vehicles or no tasks")

// Result holds the normalized records and the warnings raised on the way.
type Result struct {
	Vehicles []model.Vehicle `json:"vehicles"`
	Tasks    []model.Task    `json:"tasks"`
	Warnings []string        `json:"warnings,omitempty"`
}

// Empty reports whether there is nothing to allocate.
func (r Result) Empty() bool { return len(r.Vehicles) == 0 || len(r.Tasks) == 0 }

// Vehicle applies the vehicle defaults. ok is false for records without id.
func Vehicle(raw RawVehicle) (model.Vehicle, bool) {
	if raw.ID == nil || *raw.ID == "" {
		return model.Vehicle{}, false
	}
	v := model.Vehicle{
		ID:             string(*raw.ID),
		Capacity:       orFloat(raw.Capacity, DefaultCapacity),
		EnergyCapacity: orFloat(raw.EnergyCapacity, DefaultEnergyCapacity),
		Speed:          orFloat(raw.Speed, DefaultSpeed),
		VehicleType:    DefaultVehicleType,
	}
	if raw.Location != nil {
		v.Location = *raw.Location
	}
	if raw.VehicleType != nil && *raw.VehicleType != "" {
		v.VehicleType = *raw.VehicleType
	}
	if len(raw.Capabilities) == 0 {
		v.Capabilities = model.Capabilities{v.VehicleType}
	} else {
		v.Capabilities = append(model.Capabilities(nil), raw.Capabilities...)
	}
	return v, true
}

// Task applies the task defaults. ok is false for records without id.
func Task(raw RawTask) (model.Task, bool) {
	if raw.ID == nil || *raw.ID == "" {
		return model.Task{}, false
	}
	t := model.Task{
		ID:              string(*raw.ID),
		Demand:          orFloat(raw.Demand, 0),
		ServiceTime:     orFloat(raw.ServiceTime, 0),
		EstimatedEnergy: orFloat(raw.EstimatedEnergy, 0),
		Priority:        orInt(raw.Priority, DefaultPriority),
		TaskType:        DefaultTaskType,
		RequiredUAVs:    orInt(raw.RequiredUAVs, DefaultRequiredUAVs),
	}
	if raw.Location != nil {
		t.Location = *raw.Location
	}
	if raw.TimeWindow != nil {
		t.TimeWindow = *raw.TimeWindow
	}
	if raw.TaskType != nil && *raw.TaskType != "" {
		t.TaskType = *raw.TaskType
	}
	return t, true
}

// Normalize converts a scenario. Records without id are skipped and strike
// tasks are dropped, each with a warning.
func Normalize(s Scenario) Result {
	res := Result{
		Vehicles: make([]model.Vehicle, 0, len(s.Vehicles)),
		Tasks:    make([]model.Task, 0, len(s.Tasks)),
	}
	for i, raw := range s.Vehicles {
		v, ok := Vehicle(raw)
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Vehicle record %d skipped (missing id).", i))
			continue
		}
		res.Vehicles = append(res.Vehicles, v)
	}
	for i, raw := range s.Tasks {
		if raw.TaskType != nil && *raw.TaskType == model.TypeStrike {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Task %s removed (strike not allowed).", idLabel(raw.ID)))
			continue
		}
		t, ok := Task(raw)
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Task record %d skipped (missing id).", i))
			continue
		}
		res.Tasks = append(res.Tasks, t)
	}
	return res
}

// LoadScenario decodes a scenario document.
func LoadScenario(r io.Reader) (Scenario, error) {
	var s Scenario
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	return s, nil
}

// LoadFile reads and normalizes the scenario stored at path.
func LoadFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = f.Close() }()
	s, err := LoadScenario(f)
	if err != nil {
		return Result{}, err
	}
	return Normalize(s), nil
}

func idLabel(id *ID) string {
	if id == nil {
		return "<none>"
	}
	return string(*id)
}

func orFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func orInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
