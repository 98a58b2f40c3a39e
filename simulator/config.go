package simulator

import "fmt"

// Config holds parameters for scenario generation.
type Config struct {
	Vehicles int `json:"vehicles"`
	Tasks    int `json:"tasks"`
	// Area is the side of the square every location is drawn from.
	Area        float64 `json:"area"`
	MinCapacity float64 `json:"min_capacity"`
	MaxCapacity float64 `json:"max_capacity"`
	MinSpeed    float64 `json:"min_speed"`
	MaxSpeed    float64 `json:"max_speed"`
	MaxDemand   float64 `json:"max_demand"`
	// Horizon bounds time window starts; windows last up to Horizon/2.
	Horizon float64 `json:"horizon"`
	// ReconShare and StrikeShare are the fractions of vehicles and tasks
	// drawn as reconnaissance and strike.
	ReconShare  float64 `json:"recon_share"`
	StrikeShare float64 `json:"strike_share"`
	// SparseShare is the fraction of records emitted with optional fields
	// left out so that defaults apply.
	SparseShare float64 `json:"sparse_share"`
	Seed        int64   `json:"seed"`
}

// SetDefaults fills unset ranges.
func (c *Config) SetDefaults() {
	if c.Area <= 0 {
		c.Area = 100
	}
	if c.MaxCapacity <= 0 {
		c.MaxCapacity = 20
	}
	if c.MinCapacity <= 0 || c.MinCapacity > c.MaxCapacity {
		c.MinCapacity = c.MaxCapacity / 4
	}
	if c.MaxSpeed <= 0 {
		c.MaxSpeed = 10
	}
	if c.MinSpeed <= 0 || c.MinSpeed > c.MaxSpeed {
		c.MinSpeed = 1
	}
	if c.MaxDemand <= 0 {
		c.MaxDemand = 10
	}
	if c.Horizon <= 0 {
		c.Horizon = 100
	}
}

// Validate checks counts and shares.
func (c Config) Validate() error {
	if c.Vehicles < 0 || c.Tasks < 0 {
		return fmt.Errorf("simulator: counts must be >= 0")
	}
	for name, v := range map[string]float64{
		"recon_share":  c.ReconShare,
		"strike_share": c.StrikeShare,
		"sparse_share": c.SparseShare,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("simulator: %s must be within [0, 1]", name)
		}
	}
	if c.ReconShare+c.StrikeShare > 1 {
		return fmt.Errorf("simulator: recon_share + strike_share must be <= 1")
	}
	return nil
}
