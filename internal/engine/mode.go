package engine

import "github.com/ayusman/airsketch/internal/gesture"

// Mode is the application mode driven by the engine.
type Mode string

const (
	Idle      Mode = "idle"
	Drawing   Mode = "drawing"
	Erasing   Mode = "erasing"
	Selecting Mode = "selecting"
)

// Modes lists every mode.
var Modes = []Mode{Idle, Drawing, Erasing, Selecting}

// Next is the mode transition table. It is a pure function of the current
// mode and the stabilized gesture.
//
// Peace above the select threshold enters (or stays in) Selecting from any
// mode. Anything else while Selecting exits to Idle, so Drawing and Erasing
// never begin on the tick Selecting ends. Otherwise Point and Open enter
// Drawing and Erasing once confident enough, and everything else is Idle.
func (t Thresholds) Next(current Mode, g gesture.State) Mode {
	if g.Type == gesture.Peace && g.Confidence > t.Select {
		return Selecting
	}

	switch current {
	case Selecting:
		return Idle
	case Idle, Drawing, Erasing:
	}

	switch g.Type {
	case gesture.Point:
		if g.Confidence > t.Draw {
			return Drawing
		}
	case gesture.Open:
		if g.Confidence > t.Erase {
			return Erasing
		}
	case gesture.Peace, gesture.None:
	}

	return Idle
}
