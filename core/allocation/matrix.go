package allocation

import (
	"encoding/json"
	"strconv"

	"github.com/kilianp07/fleetalloc/core/model"
)

// Cost is a matrix cell. Infeasible cells encode as JSON null.
type Cost float64

// Feasible reports whether the cell holds a finite score.
func (c Cost) Feasible() bool { return IsFeasible(float64(c)) }

// String renders the cell with one decimal, or −∞ when infeasible.
func (c Cost) String() string {
	if !c.Feasible() {
		return "−∞"
	}
	return strconv.FormatFloat(float64(c), 'f', 1, 64)
}

// MarshalJSON implements json.Marshaler.
func (c Cost) MarshalJSON() ([]byte, error) {
	if !c.Feasible() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(c))
}

// CostMatrix holds the fresh score of every (vehicle, task) pair.
type CostMatrix struct {
	Vehicles []string `json:"vehicles"`
	Tasks    []string `json:"tasks"`
	Cells    [][]Cost `json:"cells"`
}

// NewCostMatrix scores every pair against full vehicle capacity at time zero.
// Rows follow vehicle input order and columns follow task input order.
func NewCostMatrix(vehicles []model.Vehicle, tasks []model.Task) CostMatrix {
	m := CostMatrix{
		Vehicles: make([]string, len(vehicles)),
		Tasks:    make([]string, len(tasks)),
		Cells:    make([][]Cost, len(vehicles)),
	}
	for j, t := range tasks {
		m.Tasks[j] = t.Label()
	}
	for i, v := range vehicles {
		m.Vehicles[i] = v.ID
		row := make([]Cost, len(tasks))
		for j, t := range tasks {
			row[j] = Cost(ScoreFresh(v, t))
		}
		m.Cells[i] = row
	}
	return m
}
