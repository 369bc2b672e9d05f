package weapon

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned when a Config cannot produce a working weapon.
// Concrete errors wrap it with the offending field.
var ErrInvalidConfig = errors.New("invalid weapon config")

// Config is the immutable tuning of a weapon, fixed at construction.
type Config struct {
	Damage         float64 `json:"damage" yaml:"damage"`
	Range          float64 `json:"range" yaml:"range"`
	FireRate       float64 `json:"fireRate" yaml:"fire_rate"`             // shots per second
	MaxAmmo        int     `json:"maxAmmo" yaml:"max_ammo"`               // magazine size
	ReloadDuration float64 `json:"reloadDuration" yaml:"reload_duration"` // seconds
}

// DefaultConfig matches the stock rifle: 10 damage, 100m, 10 shots/s,
// 30 rounds, 1.5s reload.
func DefaultConfig() Config {
	return Config{
		Damage:         10,
		Range:          100,
		FireRate:       10,
		MaxAmmo:        30,
		ReloadDuration: 1.5,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case !finite(c.FireRate) || c.FireRate <= 0:
		return fmt.Errorf("fire rate must be > 0, got %v: %w", c.FireRate, ErrInvalidConfig)
	case c.MaxAmmo <= 0:
		return fmt.Errorf("max ammo must be > 0, got %d: %w", c.MaxAmmo, ErrInvalidConfig)
	case !finite(c.ReloadDuration) || c.ReloadDuration <= 0:
		return fmt.Errorf("reload duration must be > 0, got %v: %w", c.ReloadDuration, ErrInvalidConfig)
	case !finite(c.Damage) || c.Damage < 0:
		return fmt.Errorf("damage must be >= 0, got %v: %w", c.Damage, ErrInvalidConfig)
	case !finite(c.Range) || c.Range < 0:
		return fmt.Errorf("range must be >= 0, got %v: %w", c.Range, ErrInvalidConfig)
	}
	return nil
}

// FireInterval is the minimum time between two shots.
func (c Config) FireInterval() float64 {
	return 1 / c.FireRate
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
