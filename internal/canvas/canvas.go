// Package canvas renders engine commands onto a raster drawing surface.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/airsketch/internal/engine"
)

// Tool is the active drawing tool chosen from the toolbox.
type Tool string

const (
	// ToolDraw paints strokes in the brush color.
	ToolDraw Tool = "draw"
	// ToolErase turns strokes into erasers.
	ToolErase Tool = "erase"
)

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	return t == ToolDraw || t == ToolErase
}

// Paper is the canvas background color.
var Paper = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Canvas is a BGR raster that strokes are painted onto. It is safe for
// concurrent use; the frame loop applies commands while HTTP handlers take
// snapshots.
type Canvas struct {
	mu     sync.Mutex
	mat    gocv.Mat
	stroke string
	last   image.Point
}

// New creates a blank canvas of the given size.
func New(width, height int) *Canvas {
	c := &Canvas{
		mat: gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3),
	}
	c.mat.SetTo(scalar(Paper))
	return c
}

// Size returns the canvas width and height.
func (c *Canvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mat.Cols(), c.mat.Rows()
}

// Apply renders one engine command. Highlight, commit and idle commands do
// not touch the raster. With ToolErase active, stroke segments paint the
// background instead of the brush color.
func (c *Canvas) Apply(cmd engine.Command, tool Tool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch cmd.Kind {
	case engine.CommandDraw:
		if cmd.Stroke == nil {
			return fmt.Errorf("draw command without stroke")
		}
		return c.drawSegment(*cmd.Stroke, tool)
	case engine.CommandErase:
		if cmd.Erase == nil {
			return fmt.Errorf("erase command without area")
		}
		center := image.Point{X: round(cmd.Erase.X), Y: round(cmd.Erase.Y)}
		gocv.Circle(&c.mat, center, round(cmd.Erase.Radius), Paper, -1)
		c.stroke = ""
	case engine.CommandIdle, engine.CommandHighlight, engine.CommandCommit:
		c.stroke = ""
	}
	return nil
}

func (c *Canvas) drawSegment(seg engine.StrokeSegment, tool Tool) error {
	col := Paper
	if tool != ToolErase {
		parsed, err := ParseColor(seg.Color)
		if err != nil {
			return err
		}
		col = parsed
	}

	pt := image.Point{X: round(seg.X), Y: round(seg.Y)}
	thickness := max(1, round(seg.Size))

	from := c.last
	if seg.Start || seg.StrokeID != c.stroke {
		from = pt
	}
	gocv.Line(&c.mat, from, pt, col, thickness)

	c.stroke = seg.StrokeID
	c.last = pt
	return nil
}

// Clear wipes the canvas back to paper.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mat.SetTo(scalar(Paper))
	c.stroke = ""
}

// At returns the color of the pixel at (x, y).
func (c *Canvas) At(x, y int) color.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.mat.GetVecbAt(y, x)
	return color.RGBA{R: v[2], G: v[1], B: v[0], A: 0xff}
}

// Snapshot returns a copy of the raster. The caller must close it.
func (c *Canvas) Snapshot() gocv.Mat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mat.Clone()
}

// Close releases the raster.
func (c *Canvas) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mat.Close()
}

func scalar(col color.RGBA) gocv.Scalar {
	return gocv.NewScalar(float64(col.B), float64(col.G), float64(col.R), 0)
}

func round(v float64) int {
	return int(math.Round(v))
}
