package model

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// Vehicle types known to the dashboard. Capabilities are free-form strings and
// may name types outside this list.
const (
	TypeDelivery       = "delivery"
	TypeReconnaissance = "reconnaissance"
	TypeStrike         = "strike"
)

// Point is a planar coordinate encoded as [x, y] in JSON. The dashboard labels
// the axes longitude and latitude but distances are always planar.
type Point struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// MarshalJSON encodes the point as a two element array.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a two element array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var xy []float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("point: expected 2 coordinates, got %d", len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Capabilities lists the task types a vehicle may serve.
type Capabilities []string

// Has reports whether taskType is one of the capabilities.
func (c Capabilities) Has(taskType string) bool {
	return slices.Contains(c, taskType)
}

// Vehicle is a normalized fleet member. Capacity is static: the remaining
// capacity during an allocation run is tracked by the allocator, not here.
type Vehicle struct {
	ID             string       `json:"id"`
	Capacity       float64      `json:"capacity"`
	EnergyCapacity float64      `json:"energy_capacity"`
	Location       Point        `json:"location"`
	Speed          float64      `json:"speed"`
	VehicleType    string       `json:"vehicle_type"`
	Capabilities   Capabilities `json:"capabilities"`
}

// Clone returns a deep copy of v.
func (v Vehicle) Clone() Vehicle {
	v.Capabilities = slices.Clone(v.Capabilities)
	return v
}

// CloneVehicles deep copies a fleet so that independent what-if runs never
// share backing arrays.
func CloneVehicles(vs []Vehicle) []Vehicle {
	out := make([]Vehicle, len(vs))
	for i, v := range vs {
		out[i] = v.Clone()
	}
	return out
}
