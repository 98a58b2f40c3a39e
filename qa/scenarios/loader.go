// Package scenarios runs allocation regression fixtures written in YAML.
// Each fixture embeds a scenario document and the expected outcome.
package scenarios

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/fleetalloc/core/allocation"
	"github.com/kilianp07/fleetalloc/core/normalize"
)

// AlertDef is an expected alert.
type AlertDef struct {
	Vehicle  string `yaml:"vehicle"`
	Severity string `yaml:"severity"`
}

// Expected is the outcome a fixture asserts.
type Expected struct {
	Assignments map[string][]string `yaml:"assignments"`
	Unallocated []string            `yaml:"unallocated"`
	Alerts      []AlertDef          `yaml:"alerts"`
	Routes      map[string]float64  `yaml:"routes,omitempty"`
	Warnings    int                 `yaml:"warnings"`
}

// Scenario is one fixture.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	CurrentTime float64        `yaml:"current_time,omitempty"`
	Document    map[string]any `yaml:"scenario"`
	Expected    Expected       `yaml:"expected"`
}

// Load reads a fixture file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: missing name", path)
	}
	return &sc, nil
}

// Input converts the embedded document into the uploaded scenario form, so
// fixtures go through the same decoding as API uploads.
func (s *Scenario) Input() (normalize.Scenario, error) {
	data, err := json.Marshal(s.Document)
	if err != nil {
		return normalize.Scenario{}, fmt.Errorf("%s: encode document: %w", s.Name, err)
	}
	return normalize.LoadScenario(bytes.NewReader(data))
}

// Options returns the allocator options of the fixture.
func (s *Scenario) Options() allocation.Options {
	return allocation.Options{CurrentTime: s.CurrentTime}
}
