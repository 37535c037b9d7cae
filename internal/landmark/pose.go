package landmark

// DefaultLift is how far an extended fingertip sits above its MCP joint in a Pose.
const DefaultLift = 80.0

// Pose describes a synthetic right hand, palm facing the camera, in pixel
// units. Fingers not marked as extended are curled just below their MCP joint.
type Pose struct {
	Wrist  Point3D
	Index  bool
	Middle bool
	Ring   bool
	Pinky  bool
	Thumb  bool

	// Lift is how far extended fingertips rise above their MCP joint.
	// Zero means DefaultLift.
	Lift float64

	// Spread is the horizontal gap added between the index and middle fingertips.
	Spread float64

	// TipDepth is the Z value of the index fingertip.
	TipDepth float64
}

// finger offsets from the wrist for MCP joints; Y grows downwards.
var mcpOffsets = map[int]Point3D{
	IndexMCP:  {X: 30, Y: -100},
	MiddleMCP: {X: 0, Y: -105},
	RingMCP:   {X: -30, Y: -100},
	PinkyMCP:  {X: -58, Y: -90},
}

// Landmarks renders the pose into a full landmark set.
func (p Pose) Landmarks() Hand {
	lift := p.Lift
	if lift == 0 {
		lift = DefaultLift
	}

	h := Hand{
		Handedness: "Right",
		Score:      0.95,
	}

	at := func(dx, dy float64) Point3D {
		return Point3D{X: p.Wrist.X + dx, Y: p.Wrist.Y + dy, Z: p.Wrist.Z}
	}

	h.Points[Wrist] = p.Wrist

	// Thumb chain either points up (thumbs up) or rests across the palm.
	if p.Thumb {
		h.Points[ThumbCMC] = at(35, -20)
		h.Points[ThumbMCP] = at(55, -45)
		h.Points[ThumbIP] = at(60, -80)
		h.Points[ThumbTip] = at(60, -115)
	} else {
		h.Points[ThumbCMC] = at(35, -20)
		h.Points[ThumbMCP] = at(50, -40)
		h.Points[ThumbIP] = at(40, -60)
		h.Points[ThumbTip] = at(25, -70)
	}

	fingers := []struct {
		mcp      int
		extended bool
		dx       float64
	}{
		{IndexMCP, p.Index, p.Spread / 2},
		{MiddleMCP, p.Middle, -p.Spread / 2},
		{RingMCP, p.Ring, 0},
		{PinkyMCP, p.Pinky, 0},
	}

	for _, f := range fingers {
		base := mcpOffsets[f.mcp]
		mcp := at(base.X, base.Y)
		h.Points[f.mcp] = mcp

		if f.extended {
			h.Points[f.mcp+1] = Point3D{X: mcp.X + f.dx*0.4, Y: mcp.Y - lift*0.4, Z: mcp.Z}
			h.Points[f.mcp+2] = Point3D{X: mcp.X + f.dx*0.7, Y: mcp.Y - lift*0.7, Z: mcp.Z}
			h.Points[f.mcp+3] = Point3D{X: mcp.X + f.dx, Y: mcp.Y - lift, Z: mcp.Z}
		} else {
			h.Points[f.mcp+1] = Point3D{X: mcp.X, Y: mcp.Y - 15, Z: mcp.Z - 5}
			h.Points[f.mcp+2] = Point3D{X: mcp.X, Y: mcp.Y - 5, Z: mcp.Z - 4}
			h.Points[f.mcp+3] = Point3D{X: mcp.X, Y: mcp.Y + 10, Z: mcp.Z - 2}
		}
	}

	h.Points[IndexTip].Z = p.TipDepth

	return h
}

// defaultWrist places the hand in the middle-bottom of a 640x480 frame.
var defaultWrist = Point3D{X: 320, Y: 400}

// Pointing returns a hand with only the index finger extended.
func Pointing() Hand {
	return Pose{Wrist: defaultWrist, Index: true}.Landmarks()
}

// Peace returns a hand with index and middle fingers extended close together.
func Peace() Hand {
	return Pose{Wrist: defaultWrist, Index: true, Middle: true, Spread: 20}.Landmarks()
}

// OpenPalm returns a hand with all four fingers extended.
func OpenPalm() Hand {
	return Pose{Wrist: defaultWrist, Index: true, Middle: true, Ring: true, Pinky: true, Thumb: true}.Landmarks()
}

// Fist returns a hand with every finger curled.
func Fist() Hand {
	return Pose{Wrist: defaultWrist}.Landmarks()
}

// ThumbsUp returns a fist with the thumb raised. The thumb is not
// used for classification, so this reads the same as a fist.
func ThumbsUp() Hand {
	return Pose{Wrist: defaultWrist, Thumb: true}.Landmarks()
}
