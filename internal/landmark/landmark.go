// Package landmark provides the hand landmark model and palm geometry.
// It has no OpenCV dependency so the recognition logic can use it alone.
package landmark

import (
	"errors"
	"fmt"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrInvalidObservation is returned when a landmark set cannot describe a hand:
// wrong landmark count or non-finite coordinates.
var ErrInvalidObservation = errors.New("invalid hand observation")

// Point3D represents a landmark position. X and Y are in frame pixels with Y
// growing downwards; Z is a relative depth proxy, not a metric distance.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand is one observation of a single hand: 21 landmarks indexed by
// the constants above.
type Hand struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// New builds a Hand from a raw landmark slice.
// It fails with ErrInvalidObservation unless exactly NumLandmarks finite
// points are supplied.
func New(points []Point3D, handedness string, score float64) (*Hand, error) {
	if len(points) != NumLandmarks {
		return nil, fmt.Errorf("%w: got %d landmarks, want %d", ErrInvalidObservation, len(points), NumLandmarks)
	}

	h := &Hand{
		Handedness: handedness,
		Score:      score,
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return nil, fmt.Errorf("%w: landmark %d is not finite", ErrInvalidObservation, i)
		}
		h.Points[i] = p
	}

	return h, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
