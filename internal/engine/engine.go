// Package engine turns per-frame hand observations into a stable drawing
// control signal: the current mode, the debounced gesture and one command
// for the renderer.
//
// An Engine owns all mutable state and is advanced by calling Tick once per
// video frame. It never blocks and is not safe for concurrent use.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/landmark"
)

// ErrInvalidBrush is returned for unusable brush settings.
var ErrInvalidBrush = errors.New("invalid brush")

// Engine is the gesture recognition and mode state engine.
type Engine struct {
	config     Config
	classifier *gesture.Classifier
	stabilizer *gesture.Stabilizer
	sizer      BrushSizer
	targeter   *Targeter
	targets    []Target
	mapper     ScreenMapper

	mode  Mode
	brush BrushSettings

	stroke      string
	strokeStart bool

	// spent is the Since of the peace hold that last committed a selection.
	// That hold may not re-enter Selecting.
	spent time.Time

	last Frame
}

// New creates an Engine. The config and target registry are validated here
// so that nothing can fail at tick time. A nil mapper means Identity.
func New(config Config, targets []Target, mapper ScreenMapper, brush BrushSettings) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := validateTargets(targets); err != nil {
		return nil, err
	}
	if brush.Size <= 0 {
		return nil, fmt.Errorf("%w: size %v must be positive", ErrInvalidBrush, brush.Size)
	}
	if mapper == nil {
		mapper = Identity
	}

	registry := append([]Target(nil), targets...)

	return &Engine{
		config:     config,
		classifier: gesture.NewClassifier(config.Gesture),
		stabilizer: gesture.NewStabilizer(config.Gesture.Ramp),
		sizer:      NewBrushSizer(config.Brush),
		targeter:   NewTargeter(registry, config.Selection),
		targets:    registry,
		mapper:     mapper,
		mode:       Idle,
		brush:      brush,
		last: Frame{
			Mode:    Idle,
			Gesture: gesture.State{Type: gesture.None},
			Command: IdleCommand(),
		},
	}, nil
}

// Tick advances the engine by one frame. hand is nil when no hand was
// detected, which drops straight to Idle and cancels any pending selection.
func (e *Engine) Tick(hand *landmark.Hand, now time.Time) Frame {
	g := e.stabilizer.Update(e.classifier.Classify(hand), now)

	next := e.config.Thresholds.Next(e.mode, g)
	if next == Selecting {
		switch {
		case e.mode != Selecting && g.Since.Equal(e.spent):
			next = Idle
		case e.targeter.CooledDown(now):
			next = Idle
		}
	}

	cmd := IdleCommand()
	if next != e.mode {
		cmd = e.leave(e.mode)
		e.enter(next)
		e.mode = next
	}

	switch e.mode {
	case Idle:
	case Drawing:
		cmd = e.draw(hand)
	case Erasing:
		cmd = e.erase(hand)
	case Selecting:
		cmd = e.selectTarget(hand, g, now)
	}

	e.last = Frame{
		Mode:    e.mode,
		Gesture: g,
		Command: cmd,
		Time:    now,
	}
	return e.last
}

// leave runs exit actions for mode and returns the command announcing them.
func (e *Engine) leave(mode Mode) Command {
	switch mode {
	case Selecting:
		e.targeter.Reset()
		return HighlightCommand("")
	case Drawing:
		e.stroke = ""
		e.strokeStart = false
	case Idle, Erasing:
	}
	return IdleCommand()
}

func (e *Engine) enter(mode Mode) {
	switch mode {
	case Drawing:
		e.stroke = uuid.New().String()
		e.strokeStart = true
	case Idle, Erasing, Selecting:
	}
}

func (e *Engine) draw(hand *landmark.Hand) Command {
	tip := hand.Points[landmark.IndexTip]
	seg := StrokeSegment{
		StrokeID: e.stroke,
		X:        tip.X,
		Y:        tip.Y,
		Size:     e.sizer.Size(tip.Z, hand.PalmRadius()),
		Color:    e.brush.Color,
		Start:    e.strokeStart,
	}
	e.strokeStart = false
	return DrawCommand(seg)
}

func (e *Engine) erase(hand *landmark.Hand) Command {
	center := hand.PalmCenter()
	depth := hand.Points[landmark.IndexTip].Z
	return EraseCommand(EraseArea{
		X:      center.X,
		Y:      center.Y,
		Radius: e.sizer.EraseRadius(depth, hand.PalmRadius()),
	})
}

func (e *Engine) selectTarget(hand *landmark.Hand, g gesture.State, now time.Time) Command {
	tip := hand.Points[landmark.IndexTip]
	cmd := e.targeter.Update(e.mapper(tip.X, tip.Y), now)
	if cmd.Kind == CommandCommit {
		e.spent = g.Since
	}
	return cmd
}

// Mode returns the current mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Gesture returns the current stabilized gesture.
func (e *Engine) Gesture() gesture.State {
	return e.stabilizer.State()
}

// Last returns the frame produced by the most recent Tick.
func (e *Engine) Last() Frame {
	return e.last
}

// Pending returns the id of the target currently being settled, if any.
func (e *Engine) Pending() string {
	return e.targeter.Pending()
}

// Brush returns the base brush settings.
func (e *Engine) Brush() BrushSettings {
	return e.brush
}

// SetBrushColor changes the stroke color. The engine does not interpret it.
func (e *Engine) SetBrushColor(color string) {
	e.brush.Color = color
}

// SetBrushSize changes the base brush size.
func (e *Engine) SetBrushSize(size float64) error {
	if size <= 0 {
		return fmt.Errorf("%w: size %v must be positive", ErrInvalidBrush, size)
	}
	e.brush.Size = size
	return nil
}

// SetMapper replaces the hand-to-screen mapping, for example when the
// camera delivers a different frame size. A nil mapper means Identity.
func (e *Engine) SetMapper(mapper ScreenMapper) {
	if mapper == nil {
		mapper = Identity
	}
	e.mapper = mapper
}

// Targets returns the target registry.
func (e *Engine) Targets() []Target {
	return append([]Target(nil), e.targets...)
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Reset returns the engine to Idle and forgets all gesture and selection
// state. Brush settings are kept.
func (e *Engine) Reset() {
	e.stabilizer.Reset()
	e.targeter.Reset()
	e.mode = Idle
	e.stroke = ""
	e.strokeStart = false
	e.spent = time.Time{}
	e.last = Frame{
		Mode:    Idle,
		Gesture: e.stabilizer.State(),
		Command: IdleCommand(),
	}
}
