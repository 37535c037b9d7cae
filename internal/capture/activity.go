package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Frame pacing defaults.
const (
	// IdleFPS is the capture rate while nothing moves in front of the camera.
	IdleFPS = 5
	// ActiveFPS is the capture rate while the user is interacting.
	ActiveFPS = 15
	// IdleTimeout is how long without motion or a hand before dropping to IdleFPS.
	IdleTimeout = 2 * time.Second
	// DefaultMotionThreshold is the percentage of changed pixels that counts as motion.
	DefaultMotionThreshold = 1.0
)

// Frame differencing constants.
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
)

// MotionDetector detects motion between consecutive frames using frame
// differencing on blurred grayscale images.
type MotionDetector struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewMotionDetector creates a MotionDetector. threshold is the percentage of
// pixels that must change; non-positive values use DefaultMotionThreshold.
func NewMotionDetector(threshold float64) *MotionDetector {
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}
	return &MotionDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares frame with the previous one and reports whether motion
// was seen along with the changed pixel percentage. The first frame after
// construction or Reset only sets the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !m.initialized || m.prevGray.Rows() != blurred.Rows() || m.prevGray.Cols() != blurred.Cols() {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100.0

	blurred.CopyTo(&m.prevGray)

	return changed > m.threshold, changed
}

// Threshold returns the motion threshold percentage.
func (m *MotionDetector) Threshold() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold
}

// Reset drops the baseline frame.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

// Close releases the baseline frame. The detector may be reused afterwards.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

func (m *MotionDetector) reset() {
	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

// ActivityConfig controls frame pacing.
type ActivityConfig struct {
	IdleFPS         int
	ActiveFPS       int
	IdleTimeout     time.Duration
	MotionThreshold float64
}

// DefaultActivityConfig returns the stock pacing.
func DefaultActivityConfig() ActivityConfig {
	return ActivityConfig{
		IdleFPS:         IdleFPS,
		ActiveFPS:       ActiveFPS,
		IdleTimeout:     IdleTimeout,
		MotionThreshold: DefaultMotionThreshold,
	}
}

// ActivityMonitor decides the capture rate. Motion in the frame or a
// detected hand switches to the active rate; IdleTimeout without either
// switches back.
type ActivityMonitor struct {
	config   ActivityConfig
	motion   *MotionDetector
	mu       sync.Mutex
	active   bool
	lastSeen time.Time
}

// NewActivityMonitor creates an ActivityMonitor starting at the idle rate.
func NewActivityMonitor(config ActivityConfig) *ActivityMonitor {
	def := DefaultActivityConfig()
	if config.IdleFPS <= 0 {
		config.IdleFPS = def.IdleFPS
	}
	if config.ActiveFPS <= 0 {
		config.ActiveFPS = def.ActiveFPS
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = def.IdleTimeout
	}

	return &ActivityMonitor{
		config: config,
		motion: NewMotionDetector(config.MotionThreshold),
	}
}

// Observe runs motion detection on frame at time now. It returns the rate
// to capture at and whether that rate changed.
func (a *ActivityMonitor) Observe(frame *gocv.Mat, now time.Time) (int, bool) {
	moved, _ := a.motion.Detect(frame)

	a.mu.Lock()
	defer a.mu.Unlock()

	if moved {
		a.lastSeen = now
	}
	return a.update(now)
}

// Touch records user activity other than motion, such as a detected hand.
func (a *ActivityMonitor) Touch(now time.Time) (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.lastSeen = now
	return a.update(now)
}

func (a *ActivityMonitor) update(now time.Time) (int, bool) {
	wasActive := a.active
	a.active = !a.lastSeen.IsZero() && now.Sub(a.lastSeen) <= a.config.IdleTimeout
	return a.fps(), a.active != wasActive
}

// Active reports whether the monitor is at the active rate.
func (a *ActivityMonitor) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// FPS returns the current capture rate.
func (a *ActivityMonitor) FPS() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fps()
}

func (a *ActivityMonitor) fps() int {
	if a.active {
		return a.config.ActiveFPS
	}
	return a.config.IdleFPS
}

// Reset returns to the idle rate and drops the motion baseline.
func (a *ActivityMonitor) Reset() {
	a.mu.Lock()
	a.active = false
	a.lastSeen = time.Time{}
	a.mu.Unlock()

	a.motion.Reset()
}

// Close releases resources held by the monitor.
func (a *ActivityMonitor) Close() {
	a.motion.Close()
}
