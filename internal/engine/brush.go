package engine

import "math"

// BrushSettings is the user's chosen brush. Size is the base size picked from
// the toolbox; strokes use the per-frame size from BrushSizer instead.
type BrushSettings struct {
	Color string  `json:"color"`
	Size  float64 `json:"size"`
}

// BrushSizer derives a pressure-like brush size from how large the hand
// appears and how close the fingertip is to the camera.
type BrushSizer struct {
	config BrushConfig
}

// NewBrushSizer creates a BrushSizer.
func NewBrushSizer(config BrushConfig) BrushSizer {
	return BrushSizer{config: config}
}

// Closeness maps depth into [0,1]; 1 is at or nearer than MinDepth.
func (b BrushSizer) Closeness(depth float64) float64 {
	span := b.config.MaxDepth - b.config.MinDepth
	n := 1 - (depth-b.config.MinDepth)/span
	return math.Min(math.Max(n, 0), 1)
}

// Size returns the stroke size for a fingertip at depth on a palm of palmRadius.
func (b BrushSizer) Size(depth, palmRadius float64) float64 {
	size := palmRadius * b.config.PalmScale * (0.5 + b.Closeness(depth)*1.5)
	return math.Max(size, b.config.MinSize)
}

// EraseRadius returns the erase radius for the same inputs.
func (b BrushSizer) EraseRadius(depth, palmRadius float64) float64 {
	return b.Size(depth, palmRadius) * b.config.EraseScale
}
