package config

import (
	"fmt"
	"math"

	"github.com/kilianp07/fleetalloc/auth"
)

// AllocationConfig tunes the allocator.
type AllocationConfig struct {
	// CurrentTime is added to travel time when classifying arrivals.
	CurrentTime float64 `json:"current_time"`
	// MaxRounds caps greedy rounds; 0 means unlimited.
	MaxRounds int `json:"max_rounds"`
	// IncludeMatrix attaches the full cost matrix to reports.
	IncludeMatrix bool `json:"include_matrix"`
}

// Validate checks numeric ranges.
func (c AllocationConfig) Validate() error {
	if c.MaxRounds < 0 {
		return fmt.Errorf("allocation: max_rounds must be >= 0")
	}
	if math.IsNaN(c.CurrentTime) || math.IsInf(c.CurrentTime, 0) {
		return fmt.Errorf("allocation: current_time must be finite")
	}
	return nil
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Address string `json:"address"`
	// RateLimit is the sustained request rate in requests per second; 0 disables throttling.
	RateLimit float64 `json:"rate_limit"`
	Burst     int     `json:"burst"`
	// MaxBodyBytes bounds uploaded scenarios.
	MaxBodyBytes int64 `json:"max_body_bytes"`
	// ReadTimeoutSeconds bounds reading a request.
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`
	// RequestTimeoutSeconds bounds allocate and runs handlers. Event streams are not bounded.
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
	// Auth protects the /api routes with a bearer token.
	Auth auth.Conf `json:"auth"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.RateLimit > 0 && c.Burst <= 0 {
		c.Burst = int(math.Ceil(c.RateLimit))
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 4 << 20
	}
	if c.ReadTimeoutSeconds <= 0 {
		c.ReadTimeoutSeconds = 10
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c HTTPConfig) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("http: address is required")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("http: rate_limit must be >= 0")
	}
	return nil
}
