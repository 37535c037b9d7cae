package landmark

import "math"

// palmPoints are the landmarks whose mean is the palm center.
var palmPoints = [...]int{Wrist, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// Distance2D returns the Euclidean distance between a and b ignoring Z.
func Distance2D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PalmCenter returns the mean of the wrist and the four finger MCP joints.
// Each axis is averaged independently.
func (h *Hand) PalmCenter() Point3D {
	var c Point3D
	for _, idx := range palmPoints {
		c.X += h.Points[idx].X
		c.Y += h.Points[idx].Y
		c.Z += h.Points[idx].Z
	}

	n := float64(len(palmPoints))
	c.X /= n
	c.Y /= n
	c.Z /= n
	return c
}

// PalmRadius returns the largest 2-D distance from the palm center to the
// wrist, the index MCP or the pinky MCP.
func (h *Hand) PalmRadius() float64 {
	center := h.PalmCenter()

	radius := Distance2D(center, h.Points[Wrist])
	radius = math.Max(radius, Distance2D(center, h.Points[IndexMCP]))
	radius = math.Max(radius, Distance2D(center, h.Points[PinkyMCP]))
	return radius
}
