package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/airsketch/internal/gesture"
)

// ErrInvalidConfig is returned when engine tunables are out of range.
var ErrInvalidConfig = errors.New("invalid engine config")

// Thresholds are the confidence levels a gesture must exceed to enter a mode.
type Thresholds struct {
	Draw   float64 `json:"draw"`
	Erase  float64 `json:"erase"`
	Select float64 `json:"select"`
}

// BrushConfig controls how hand size and depth map to brush size.
type BrushConfig struct {
	// MinDepth and MaxDepth bound the fingertip depth range; a fingertip at
	// MinDepth or closer yields the largest brush.
	MinDepth float64 `json:"minDepth"`
	MaxDepth float64 `json:"maxDepth"`

	// MinSize is the smallest brush size ever produced.
	MinSize float64 `json:"minSize"`

	// PalmScale scales the palm radius into a base brush size.
	PalmScale float64 `json:"palmScale"`

	// EraseScale scales the brush size into the erase radius.
	EraseScale float64 `json:"eraseScale"`
}

// SelectionConfig controls the selection targeter.
type SelectionConfig struct {
	// Reach is the exclusive upper bound on the vertical distance between
	// the mapped hand position and a target center.
	Reach float64 `json:"reach"`

	// Settle is how long a candidate must stay nearest before it is committed.
	Settle time.Duration `json:"settle"`

	// Cooldown is how long Selecting lingers after a commit.
	Cooldown time.Duration `json:"cooldown"`
}

// Config holds every engine tunable.
type Config struct {
	Gesture    gesture.Config  `json:"gesture"`
	Thresholds Thresholds      `json:"thresholds"`
	Brush      BrushConfig     `json:"brush"`
	Selection  SelectionConfig `json:"selection"`
}

// DefaultConfig returns the stock engine tuning.
func DefaultConfig() Config {
	return Config{
		Gesture: gesture.DefaultConfig(),
		Thresholds: Thresholds{
			Draw:   0.3,
			Erase:  0.4,
			Select: 0.7,
		},
		Brush: BrushConfig{
			MinDepth:   -40,
			MaxDepth:   40,
			MinSize:    5,
			PalmScale:  0.4,
			EraseScale: 1.5,
		},
		Selection: SelectionConfig{
			Reach:    50,
			Settle:   500 * time.Millisecond,
			Cooldown: 1000 * time.Millisecond,
		},
	}
}

// Validate checks every tunable and returns the first problem found.
func (c Config) Validate() error {
	if err := c.Gesture.Validate(); err != nil {
		return err
	}

	for _, th := range []struct {
		name string
		v    float64
	}{
		{"draw", c.Thresholds.Draw},
		{"erase", c.Thresholds.Erase},
		{"select", c.Thresholds.Select},
	} {
		// Confidence never exceeds 1, so a threshold of 1 could never fire.
		if th.v < 0 || th.v >= 1 {
			return fmt.Errorf("%w: %s threshold %v outside [0, 1)", ErrInvalidConfig, th.name, th.v)
		}
	}

	b := c.Brush
	if b.MaxDepth <= b.MinDepth {
		return fmt.Errorf("%w: max depth %v must exceed min depth %v", ErrInvalidConfig, b.MaxDepth, b.MinDepth)
	}
	if b.MinSize <= 0 {
		return fmt.Errorf("%w: min size %v must be positive", ErrInvalidConfig, b.MinSize)
	}
	if b.PalmScale <= 0 || b.EraseScale <= 0 {
		return fmt.Errorf("%w: brush scales must be positive", ErrInvalidConfig)
	}

	s := c.Selection
	if s.Reach <= 0 {
		return fmt.Errorf("%w: selection reach %v must be positive", ErrInvalidConfig, s.Reach)
	}
	if s.Settle < 0 || s.Cooldown < 0 {
		return fmt.Errorf("%w: selection delays must not be negative", ErrInvalidConfig)
	}

	return nil
}
