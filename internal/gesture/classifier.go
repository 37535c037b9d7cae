package gesture

import "github.com/ayusman/airsketch/internal/landmark"

// Classifier maps one observation to one gesture. It keeps no history.
type Classifier struct {
	config Config
}

// NewClassifier creates a Classifier with the given thresholds.
func NewClassifier(config Config) *Classifier {
	return &Classifier{config: config}
}

// Extended reports whether the finger whose MCP joint is at index mcp is
// extended. The fingertip is always mcp+3. Up is smaller Y.
func (c *Classifier) Extended(hand *landmark.Hand, mcp int) bool {
	return hand.Points[mcp+3].Y <= hand.Points[mcp].Y-c.config.ExtendThreshold
}

// Classify returns the gesture for hand. A nil hand is None. The thumb is
// never consulted.
func (c *Classifier) Classify(hand *landmark.Hand) Type {
	if hand == nil {
		return None
	}

	index := c.Extended(hand, landmark.IndexMCP)
	middle := c.Extended(hand, landmark.MiddleMCP)
	ring := c.Extended(hand, landmark.RingMCP)
	pinky := c.Extended(hand, landmark.PinkyMCP)

	switch {
	case index && middle && ring && pinky:
		return Open
	case index && middle && !ring && !pinky:
		spread := landmark.Distance2D(hand.Points[landmark.IndexTip], hand.Points[landmark.MiddleTip])
		if spread < c.config.PeaceSpread {
			return Peace
		}
		return None
	case index && !middle && !ring && !pinky:
		return Point
	default:
		return None
	}
}
