// Package gesture classifies single hand observations into a small closed set
// of gestures and debounces the per-frame labels into a confidence ramp.
package gesture

import (
	"errors"
	"fmt"
	"time"
)

// Type is a classified hand gesture.
type Type string

const (
	// None is any pose that matches no other gesture, including no hand.
	None Type = "none"
	// Point is the index finger extended alone.
	Point Type = "point"
	// Peace is the index and middle fingers extended close together.
	Peace Type = "peace"
	// Open is all four fingers extended.
	Open Type = "open"
)

// Types lists every gesture in classification precedence order, None last.
var Types = []Type{Open, Peace, Point, None}

// Valid reports whether t is one of the known gestures.
func (t Type) Valid() bool {
	switch t {
	case None, Point, Peace, Open:
		return true
	}
	return false
}

// DefaultRamp is how long a gesture must be held to reach full confidence.
const DefaultRamp = 500 * time.Millisecond

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid gesture config")

// Config holds classifier and stabilizer tunables. Distances are in the
// units of the landmarks (frame pixels).
type Config struct {
	// ExtendThreshold is how far a fingertip must sit above its MCP joint
	// for the finger to count as extended.
	ExtendThreshold float64 `json:"extendThreshold"`

	// PeaceSpread is the exclusive upper bound on the index to middle
	// fingertip distance for a peace sign.
	PeaceSpread float64 `json:"peaceSpread"`

	// Ramp is the hold time to reach confidence 1.
	Ramp time.Duration `json:"ramp"`
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		ExtendThreshold: 30,
		PeaceSpread:     100,
		Ramp:            DefaultRamp,
	}
}

// Validate checks that all tunables are usable.
func (c Config) Validate() error {
	if c.ExtendThreshold < 0 {
		return fmt.Errorf("%w: extend threshold %v is negative", ErrInvalidConfig, c.ExtendThreshold)
	}
	if c.PeaceSpread <= 0 {
		return fmt.Errorf("%w: peace spread %v must be positive", ErrInvalidConfig, c.PeaceSpread)
	}
	if c.Ramp <= 0 {
		return fmt.Errorf("%w: ramp %v must be positive", ErrInvalidConfig, c.Ramp)
	}
	return nil
}
