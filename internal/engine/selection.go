package engine

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidTarget is returned when the target registry is malformed.
var ErrInvalidTarget = errors.New("invalid target")

// Point is a position in screen coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the middle of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Target is a selectable UI affordance. Bounds is queried every tick so the
// renderer may move targets; OnSelect runs on the engine's goroutine.
type Target struct {
	ID       string
	Label    string
	Bounds   func() Rect
	OnSelect func()
}

// FixedBounds returns a Bounds accessor for a rectangle that never moves.
func FixedBounds(r Rect) func() Rect {
	return func() Rect { return r }
}

// ScreenMapper converts a hand position in frame pixels to screen coordinates.
type ScreenMapper func(x, y float64) Point

// Identity maps frame pixels onto the screen unchanged.
func Identity(x, y float64) Point {
	return Point{X: x, Y: y}
}

// PanelMapper maps the frame's vertical axis onto a vertical control panel.
// X is ignored; the result always sits on the panel's vertical center line.
func PanelMapper(panel Rect, frameHeight float64) ScreenMapper {
	return func(_, y float64) Point {
		return Point{
			X: panel.X + panel.Width/2,
			Y: panel.Y + y/frameHeight*panel.Height,
		}
	}
}

func validateTargets(targets []Target) error {
	seen := make(map[string]bool, len(targets))
	for i, t := range targets {
		if t.ID == "" {
			return fmt.Errorf("%w: target %d has no id", ErrInvalidTarget, i)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidTarget, t.ID)
		}
		if t.Bounds == nil {
			return fmt.Errorf("%w: target %q has no bounds", ErrInvalidTarget, t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

type selectPhase int

const (
	searching selectPhase = iota
	settling
	exiting
)

// Targeter picks the target nearest the hand and commits it after a settle
// delay. Deadlines are plain timestamps checked on each Update, so
// cancelling a pending commit is just a phase change.
type Targeter struct {
	targets  []Target
	config   SelectionConfig
	phase    selectPhase
	pending  int
	deadline time.Time
}

// NewTargeter creates a Targeter over a fixed registry.
func NewTargeter(targets []Target, config SelectionConfig) *Targeter {
	return &Targeter{
		targets: targets,
		config:  config,
		pending: -1,
	}
}

// Nearest returns the index of the target whose center is vertically closest
// to pos and that distance. Ties go to the earlier target. It returns -1 for
// an empty registry.
func (t *Targeter) Nearest(pos Point) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i, target := range t.targets {
		d := math.Abs(pos.Y - target.Bounds().Center().Y)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// Update advances selection for one tick spent in Selecting.
func (t *Targeter) Update(pos Point, now time.Time) Command {
	if t.phase == exiting {
		return IdleCommand()
	}

	idx, dist := t.Nearest(pos)
	if idx < 0 || dist >= t.config.Reach {
		t.cancel()
		return HighlightCommand("")
	}

	target := t.targets[idx]
	if t.phase != settling || t.pending != idx {
		t.phase = settling
		t.pending = idx
		t.deadline = now.Add(t.config.Settle)
	}

	if now.Before(t.deadline) {
		return HighlightCommand(target.ID)
	}

	if target.OnSelect != nil {
		target.OnSelect()
	}
	t.phase = exiting
	t.pending = -1
	t.deadline = now.Add(t.config.Cooldown)
	return CommitCommand(target.ID)
}

// Pending returns the id of the candidate being settled, if any.
func (t *Targeter) Pending() string {
	if t.phase != settling || t.pending < 0 {
		return ""
	}
	return t.targets[t.pending].ID
}

// CooledDown reports whether a commit's cool-down has elapsed.
func (t *Targeter) CooledDown(now time.Time) bool {
	return t.phase == exiting && !now.Before(t.deadline)
}

// Reset abandons any pending commit or cool-down.
func (t *Targeter) Reset() {
	t.cancel()
}

func (t *Targeter) cancel() {
	t.phase = searching
	t.pending = -1
	t.deadline = time.Time{}
}
