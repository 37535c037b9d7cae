// Package detector provides the hand landmark predictors that turn video
// frames into landmark observations.
package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/airsketch/internal/landmark"
)

// Detector is the hand landmark predictor. Implementations return landmarks
// in pixel units of the frame they were given.
type Detector interface {
	// Detect analyzes a video frame and returns detected hands, best first.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]landmark.Hand, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect. Only the first is
	// used for control, so the default is 1.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

// Primary returns the hand used for control, or nil when none was detected.
func Primary(hands []landmark.Hand) *landmark.Hand {
	if len(hands) == 0 {
		return nil
	}
	return &hands[0]
}
