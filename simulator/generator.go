// Package simulator generates random allocation scenarios. Generation is
// deterministic for a given seed.
package simulator

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/kilianp07/fleetalloc/core/model"
	"github.com/kilianp07/fleetalloc/core/normalize"
)

// Generator draws scenarios from a seeded source.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New creates a Generator. cfg is defaulted and validated.
func New(cfg Config) (*Generator, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, rand: rand.New(rand.NewSource(cfg.Seed))}, nil
}

// Generate produces a scenario document. Vehicle ids are uav001.. and task
// ids count from 1.
func (g *Generator) Generate() normalize.Scenario {
	sc := normalize.Scenario{
		Vehicles: make([]normalize.RawVehicle, 0, g.cfg.Vehicles),
		Tasks:    make([]normalize.RawTask, 0, g.cfg.Tasks),
	}
	for i := 0; i < g.cfg.Vehicles; i++ {
		sc.Vehicles = append(sc.Vehicles, g.vehicle(i))
	}
	for i := 0; i < g.cfg.Tasks; i++ {
		sc.Tasks = append(sc.Tasks, g.task(i))
	}
	return sc
}

func (g *Generator) vehicle(i int) normalize.RawVehicle {
	id := normalize.ID(fmt.Sprintf("uav%03d", i+1))
	v := normalize.RawVehicle{ID: &id}
	typ := g.kind()
	v.VehicleType = &typ
	if g.sparse() {
		return v
	}
	capacity := g.round(g.between(g.cfg.MinCapacity, g.cfg.MaxCapacity))
	speed := g.round(g.between(g.cfg.MinSpeed, g.cfg.MaxSpeed))
	loc := g.point()
	v.Capacity = &capacity
	v.Speed = &speed
	v.Location = &loc
	// Some vehicles serve a second type to exercise capability matching.
	if g.rand.Float64() < 0.25 {
		v.Capabilities = normalize.StringList{typ, model.TypeDelivery}
		if typ == model.TypeDelivery {
			v.Capabilities[1] = model.TypeReconnaissance
		}
	}
	return v
}

func (g *Generator) task(i int) normalize.RawTask {
	id := normalize.ID(fmt.Sprintf("%d", i+1))
	t := normalize.RawTask{ID: &id}
	typ := g.kind()
	t.TaskType = &typ
	if g.sparse() {
		return t
	}
	demand := g.round(g.between(1, g.cfg.MaxDemand))
	priority := 1 + g.rand.Intn(5)
	start := g.round(g.between(0, g.cfg.Horizon))
	end := g.round(start + g.between(1, g.cfg.Horizon/2))
	loc := g.point()
	t.Demand = &demand
	t.Priority = &priority
	t.TimeWindow = &model.TimeWindow{Start: start, End: end}
	t.Location = &loc
	return t
}

func (g *Generator) kind() string {
	r := g.rand.Float64()
	switch {
	case r < g.cfg.StrikeShare:
		return model.TypeStrike
	case r < g.cfg.StrikeShare+g.cfg.ReconShare:
		return model.TypeReconnaissance
	default:
		return model.TypeDelivery
	}
}

func (g *Generator) sparse() bool {
	return g.cfg.SparseShare > 0 && g.rand.Float64() < g.cfg.SparseShare
}

func (g *Generator) point() model.Point {
	return model.Point{X: g.round(g.between(0, g.cfg.Area)), Y: g.round(g.between(0, g.cfg.Area))}
}

func (g *Generator) between(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + g.rand.Float64()*(max-min)
}

// round keeps generated documents readable.
func (g *Generator) round(f float64) float64 {
	return math.Round(f*100) / 100
}
