package landmark

import (
	"math"
	"testing"
)

func TestDistance2D(t *testing.T) {
	tests := []struct {
		name string
		a, b Point3D
		want float64
	}{
		{"same point", Point3D{X: 1, Y: 1}, Point3D{X: 1, Y: 1}, 0},
		{"3-4-5 triangle", Point3D{X: 0, Y: 0}, Point3D{X: 3, Y: 4}, 5},
		{"ignores depth", Point3D{X: 0, Y: 0, Z: -100}, Point3D{X: 3, Y: 4, Z: 100}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance2D(tt.a, tt.b); math.Abs(got-tt.want) > epsilon {
				t.Errorf("Distance2D() = %f, want %f", got, tt.want)
			}
			if got := Distance2D(tt.b, tt.a); math.Abs(got-tt.want) > epsilon {
				t.Errorf("Distance2D() not symmetric: %f", got)
			}
		})
	}
}

func TestPalmCenter(t *testing.T) {
	hand := Hand{}
	hand.Points[Wrist] = Point3D{X: 0, Y: 0, Z: 0}
	hand.Points[IndexMCP] = Point3D{X: 10, Y: 20, Z: 5}
	hand.Points[MiddleMCP] = Point3D{X: 20, Y: 20, Z: 5}
	hand.Points[RingMCP] = Point3D{X: 30, Y: 20, Z: 5}
	hand.Points[PinkyMCP] = Point3D{X: 40, Y: 40, Z: 10}
	// Fingertips must not contribute.
	hand.Points[IndexTip] = Point3D{X: 1000, Y: 1000, Z: 1000}

	c := hand.PalmCenter()

	if math.Abs(c.X-20) > epsilon || math.Abs(c.Y-20) > epsilon || math.Abs(c.Z-5) > epsilon {
		t.Errorf("expected center (20, 20, 5), got %+v", c)
	}
}

func TestPalmRadius(t *testing.T) {
	t.Run("max distance to wrist and outer MCPs", func(t *testing.T) {
		hand := Hand{}
		hand.Points[Wrist] = Point3D{X: 0, Y: -10}
		hand.Points[IndexMCP] = Point3D{X: 10, Y: 0}
		hand.Points[MiddleMCP] = Point3D{X: 0, Y: 0}
		hand.Points[RingMCP] = Point3D{X: 0, Y: 0}
		hand.Points[PinkyMCP] = Point3D{X: -10, Y: 10}
		// center = (0, 0)

		got := hand.PalmRadius()
		want := math.Sqrt(200)
		if math.Abs(got-want) > epsilon {
			t.Errorf("PalmRadius() = %f, want %f", got, want)
		}
	})

	t.Run("degenerate hand has zero radius", func(t *testing.T) {
		hand := Hand{}
		if got := hand.PalmRadius(); got != 0 {
			t.Errorf("expected 0, got %f", got)
		}
	})
}

func TestPalmGeometry_Properties(t *testing.T) {
	poses := map[string]Hand{
		"pointing":  Pointing(),
		"peace":     Peace(),
		"open":      OpenPalm(),
		"fist":      Fist(),
		"thumbs up": ThumbsUp(),
		"shifted":   Pose{Wrist: Point3D{X: -500, Y: 1e4, Z: 30}, Index: true, Ring: true}.Landmarks(),
	}

	for name, hand := range poses {
		t.Run(name, func(t *testing.T) {
			if r := hand.PalmRadius(); r < 0 {
				t.Errorf("palm radius must be non-negative, got %f", r)
			}

			// The mean lies inside the bounding box of its contributing points,
			// which contains their convex hull.
			c := hand.PalmCenter()
			minX, maxX := math.Inf(1), math.Inf(-1)
			minY, maxY := math.Inf(1), math.Inf(-1)
			for _, idx := range palmPoints {
				p := hand.Points[idx]
				minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
				minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
			}
			if c.X < minX-epsilon || c.X > maxX+epsilon || c.Y < minY-epsilon || c.Y > maxY+epsilon {
				t.Errorf("center %+v outside palm bounds x[%f,%f] y[%f,%f]", c, minX, maxX, minY, maxY)
			}

			// Deterministic.
			if hand.PalmCenter() != c {
				t.Error("PalmCenter is not deterministic")
			}
		})
	}
}
