package solver

import (
	"errors"
	"fmt"
)

// ErrConfig indicates an invalid solver parameter.
var ErrConfig = errors.New("invalid solver config")

// Config controls the action abstraction and traversal behaviour of a solve
// session.
type Config struct {
	// BetSizing lists the bet sizes exposed by the abstraction as fractions
	// of the pot after any call. Values must be strictly increasing. Sizes
	// are capped by the pot-limit maximum before dedupe.
	BetSizing []float64

	// MaxRaisesPerStreet bounds the raise depth of a single betting round,
	// which bounds overall traversal depth.
	MaxRaisesPerStreet int

	// Seed drives opponent-hand and runout sampling. Zero selects a
	// time-derived seed.
	Seed int64

	// ProgressEvery invokes the progress callback every N iterations.
	// Zero disables progress reporting.
	ProgressEvery int
}

// Validate ensures the configuration is safe to use before a solve begins.
func (c Config) Validate() error {
	if len(c.BetSizing) == 0 {
		return fmt.Errorf("%w: at least one bet sizing fraction is required", ErrConfig)
	}
	last := 0.0
	for i, v := range c.BetSizing {
		if v <= 0 {
			return fmt.Errorf("%w: bet sizing[%d] must be > 0", ErrConfig, i)
		}
		if v <= last {
			return fmt.Errorf("%w: bet sizing[%d] must be strictly increasing", ErrConfig, i)
		}
		last = v
	}
	if c.MaxRaisesPerStreet <= 0 {
		return fmt.Errorf("%w: max raises per street must be > 0", ErrConfig)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("%w: progress interval cannot be negative", ErrConfig)
	}
	return nil
}

// DefaultConfig returns a conservative abstraction. The overbet sizes common
// in no-limit abstractions are absent: pot-limit caps raises at the pot.
func DefaultConfig() Config {
	return Config{
		BetSizing:          []float64{0.33, 0.5, 0.75, 1.0},
		MaxRaisesPerStreet: 3,
	}
}
