package gesture

import "time"

// State is the debounced gesture: the label, when it was first seen in the
// current unbroken run, and how confident the hold is.
type State struct {
	Type       Type      `json:"type"`
	Since      time.Time `json:"since"`
	Confidence float64   `json:"confidence"`
}

// Stabilizer turns noisy per-frame labels into a confidence ramp. A label has
// to be held continuously for the ramp duration to reach confidence 1; any
// change, including a single None frame, restarts from 0.
type Stabilizer struct {
	ramp  time.Duration
	state State
}

// NewStabilizer creates a Stabilizer. A non-positive ramp falls back to DefaultRamp.
func NewStabilizer(ramp time.Duration) *Stabilizer {
	if ramp <= 0 {
		ramp = DefaultRamp
	}
	return &Stabilizer{
		ramp:  ramp,
		state: State{Type: None},
	}
}

// Update feeds one raw label observed at now and returns the new state.
func (s *Stabilizer) Update(raw Type, now time.Time) State {
	if raw != s.state.Type || s.state.Since.IsZero() {
		s.state = State{Type: raw, Since: now}
		return s.state
	}

	confidence := float64(now.Sub(s.state.Since)) / float64(s.ramp)
	if confidence > 1 {
		confidence = 1
	}
	// A clock stepping backwards must not lower a held gesture's confidence.
	if confidence > s.state.Confidence {
		s.state.Confidence = confidence
	}
	return s.state
}

// State returns the current state without updating it.
func (s *Stabilizer) State() State {
	return s.state
}

// Reset forgets the current hold.
func (s *Stabilizer) Reset() {
	s.state = State{Type: None}
}
