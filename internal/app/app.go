// Package app runs the air drawing pipeline: camera, hand detection, the
// gesture engine and the canvas layer.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/capture"
	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/engine"
	"github.com/ayusman/airsketch/internal/store"
)

// ErrNoFrame is returned by Preview before the first camera frame arrives.
var ErrNoFrame = errors.New("no camera frame yet")

// ErrInvalidSettings is returned when a settings update is rejected.
var ErrInvalidSettings = errors.New("invalid settings")

// subscriberBuffer is how many frames a slow subscriber may lag before frames
// are dropped for it.
const subscriberBuffer = 8

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	Camera   capture.CameraConfig
	Activity capture.ActivityConfig
	Engine   engine.Config
	Logger   *slog.Logger
}

// Settings are the user's brush and tool choices.
type Settings struct {
	Color string      `json:"color"`
	Size  float64     `json:"size"`
	Tool  canvas.Tool `json:"tool"`
}

// DefaultSettings returns the settings used before anything is chosen.
func DefaultSettings() Settings {
	return Settings{Color: "#ff0000", Size: SizeMedium, Tool: canvas.ToolDraw}
}

// SettingsUpdate changes some settings; nil fields are left alone.
type SettingsUpdate struct {
	Color *string      `json:"color,omitempty"`
	Size  *float64     `json:"size,omitempty"`
	Tool  *canvas.Tool `json:"tool,omitempty"`
}

// Status is a snapshot of the running application.
type Status struct {
	Enabled  bool         `json:"enabled"`
	Running  bool         `json:"running"`
	Active   bool         `json:"active"`
	FPS      int          `json:"fps"`
	Pending  string       `json:"pending,omitempty"`
	Frame    engine.Frame `json:"frame"`
	Settings Settings     `json:"settings"`
}

// TargetInfo describes one toolbox target.
type TargetInfo struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Bounds engine.Rect `json:"bounds"`
}

// App is the main application that turns camera frames into drawing.
type App struct {
	config   Config
	logger   *slog.Logger
	camera   capture.Camera
	activity *capture.ActivityMonitor
	detector detector.Detector
	engine   *engine.Engine
	canvas   *canvas.Canvas
	tool     canvas.Tool
	labels   map[string]string
	enabled  bool
	mu       sync.RWMutex
	stopCh   chan struct{}
	done     chan struct{}

	previewMu sync.Mutex
	preview   gocv.Mat

	subsMu sync.Mutex
	subs   map[chan engine.Frame]struct{}
}

// New creates an App. The engine configuration is validated here.
func New(config Config) (*App, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.Camera.Width <= 0 || config.Camera.Height <= 0 {
		defaults := capture.DefaultCameraConfig()
		config.Camera.Width, config.Camera.Height = defaults.Width, defaults.Height
	}
	if config.Activity.IdleFPS <= 0 {
		config.Activity = capture.DefaultActivityConfig()
	}

	a := &App{
		config:   config,
		logger:   logger,
		camera:   capture.NewCamera(config.Camera),
		activity: capture.NewActivityMonitor(config.Activity),
		canvas:   canvas.New(config.Camera.Width, config.Camera.Height),
		tool:     canvas.ToolDraw,
		enabled:  true,
		preview:  gocv.NewMat(),
		subs:     make(map[chan engine.Frame]struct{}),
	}

	settings := DefaultSettings()
	targets := a.toolbox()
	a.labels = make(map[string]string, len(targets))
	for _, t := range targets {
		a.labels[t.ID] = t.Label
	}

	eng, err := engine.New(config.Engine, targets,
		engine.PanelMapper(PanelBounds(), float64(config.Camera.Height)),
		engine.BrushSettings{Color: settings.Color, Size: settings.Size})
	if err != nil {
		a.activity.Close()
		a.canvas.Close()
		a.preview.Close()
		return nil, fmt.Errorf("create engine: %w", err)
	}
	a.engine = eng

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig(), logger); err == nil {
		a.detector = mp
		logger.Info("using MediaPipe hand detection")
	} else {
		logger.Warn("MediaPipe not available, using mock detector", slog.Any("error", err))
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// LoadSettings restores persisted settings from the store. Unknown or
// malformed values are logged and skipped.
func (a *App) LoadSettings() error {
	if a.config.Store == nil {
		return nil
	}

	values, err := a.config.Store.Settings().All()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	var update SettingsUpdate
	if v, ok := values[store.SettingBrushColor]; ok {
		update.Color = &v
	}
	if v, ok := values[store.SettingBrushSize]; ok {
		if size, err := strconv.ParseFloat(v, 64); err == nil {
			update.Size = &size
		} else {
			a.logger.Warn("ignoring stored brush size", slog.String("value", v))
		}
	}
	if v, ok := values[store.SettingTool]; ok {
		tool := canvas.Tool(v)
		update.Tool = &tool
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, u := range splitUpdate(update) {
		if err := a.applySettings(u, false); err != nil {
			a.logger.Warn("ignoring stored setting", slog.Any("error", err))
		}
	}
	a.logger.Info("loaded settings", slog.Int("count", len(values)))
	return nil
}

// splitUpdate breaks an update into one update per field so that one bad
// stored value does not discard the others.
func splitUpdate(u SettingsUpdate) []SettingsUpdate {
	var out []SettingsUpdate
	if u.Color != nil {
		out = append(out, SettingsUpdate{Color: u.Color})
	}
	if u.Size != nil {
		out = append(out, SettingsUpdate{Size: u.Size})
	}
	if u.Tool != nil {
		out = append(out, SettingsUpdate{Tool: u.Tool})
	}
	return out
}

// Settings returns the current brush and tool.
func (a *App) Settings() Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings()
}

func (a *App) settings() Settings {
	brush := a.engine.Brush()
	return Settings{Color: brush.Color, Size: brush.Size, Tool: a.tool}
}

// UpdateSettings validates and applies u, persists it and returns the
// resulting settings.
func (a *App) UpdateSettings(u SettingsUpdate) (Settings, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.applySettings(u, true); err != nil {
		return a.settings(), err
	}
	return a.settings(), nil
}

// applySettings must be called with a.mu held. Nothing is changed unless
// every field is valid.
func (a *App) applySettings(u SettingsUpdate, persist bool) error {
	if u.Color != nil {
		if _, err := canvas.ParseColor(*u.Color); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
		}
	}
	if u.Size != nil && *u.Size <= 0 {
		return fmt.Errorf("%w: size %v must be positive", ErrInvalidSettings, *u.Size)
	}
	if u.Tool != nil && !u.Tool.Valid() {
		return fmt.Errorf("%w: unknown tool %q", ErrInvalidSettings, *u.Tool)
	}

	values := make(map[string]string, 3)
	if u.Color != nil {
		a.engine.SetBrushColor(*u.Color)
		values[store.SettingBrushColor] = *u.Color
	}
	if u.Size != nil {
		if err := a.engine.SetBrushSize(*u.Size); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
		}
		values[store.SettingBrushSize] = strconv.FormatFloat(*u.Size, 'f', -1, 64)
	}
	if u.Tool != nil {
		a.tool = *u.Tool
		values[store.SettingTool] = string(*u.Tool)
	}

	if persist && a.config.Store != nil && len(values) > 0 {
		if err := a.config.Store.Settings().SetMany(values); err != nil {
			a.logger.Error("failed to persist settings", slog.Any("error", err))
		}
	}
	return nil
}

// ClearCanvas wipes the drawing.
func (a *App) ClearCanvas() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.canvas.Clear()
}

// Targets describes the toolbox.
func (a *App) Targets() []TargetInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()

	targets := a.engine.Targets()
	out := make([]TargetInfo, len(targets))
	for i, t := range targets {
		out[i] = TargetInfo{ID: t.ID, Label: t.Label, Bounds: t.Bounds()}
	}
	return out
}

// Status returns a snapshot of the pipeline and engine state.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Status{
		Enabled:  a.enabled,
		Running:  a.stopCh != nil,
		Active:   a.activity.Active(),
		FPS:      a.activity.FPS(),
		Pending:  a.engine.Pending(),
		Frame:    a.engine.Last(),
		Settings: a.settings(),
	}
}

// SetEnabled enables or disables gesture detection. Disabling resets the
// engine so that no half-finished stroke or selection survives.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.enabled && !enabled {
		a.engine.Reset()
	}
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera. It must be called before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Subscribe returns a channel receiving every frame the engine produces and
// a function that cancels the subscription.
func (a *App) Subscribe() (<-chan engine.Frame, func()) {
	ch := make(chan engine.Frame, subscriberBuffer)

	a.subsMu.Lock()
	a.subs[ch] = struct{}{}
	a.subsMu.Unlock()

	return ch, func() {
		a.subsMu.Lock()
		defer a.subsMu.Unlock()
		if _, ok := a.subs[ch]; ok {
			delete(a.subs, ch)
			close(ch)
		}
	}
}

func (a *App) publish(f engine.Frame) {
	a.subsMu.Lock()
	defer a.subsMu.Unlock()
	for ch := range a.subs {
		select {
		case ch <- f:
		default:
		}
	}
}

// Preview returns a copy of the latest camera frame. The caller must close it.
func (a *App) Preview() (gocv.Mat, error) {
	a.previewMu.Lock()
	defer a.previewMu.Unlock()
	if a.preview.Empty() {
		return gocv.NewMat(), ErrNoFrame
	}
	return a.preview.Clone(), nil
}

func (a *App) setPreview(frame *gocv.Mat) {
	a.previewMu.Lock()
	defer a.previewMu.Unlock()
	frame.CopyTo(&a.preview)
}

// CanvasSnapshot returns a copy of the drawing. The caller must close it.
func (a *App) CanvasSnapshot() (gocv.Mat, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.canvas.Snapshot(), nil
}

// Start opens the camera and begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	a.camera.SetFPS(a.config.Activity.IdleFPS)

	// The canvas and the panel mapping follow the camera's actual resolution.
	if w, h := a.camera.Size(); w > 0 && h > 0 {
		if cw, ch := a.canvas.Size(); cw != w || ch != h {
			a.canvas.Close()
			a.canvas = canvas.New(w, h)
		}
		a.engine.SetMapper(engine.PanelMapper(PanelBounds(), float64(h)))
	}

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.stopCh, a.done)

	a.logger.Info("detection pipeline started")
	return nil
}

// Stop halts the pipeline and waits for it to exit. The camera is closed;
// the app can be started again.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, done := a.stopCh, a.done
	a.stopCh, a.done = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.camera.Close(); err != nil {
		a.logger.Error("failed to close camera", slog.Any("error", err))
	}
	a.activity.Reset()
	a.engine.Reset()
	a.logger.Info("detection pipeline stopped")
}

// Close stops the pipeline and releases every resource.
func (a *App) Close() error {
	a.Stop()

	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close detector: %w", err))
		}
	}
	a.activity.Close()
	if err := a.canvas.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close canvas: %w", err))
	}

	a.previewMu.Lock()
	a.preview.Close()
	a.previewMu.Unlock()

	a.subsMu.Lock()
	for ch := range a.subs {
		delete(a.subs, ch)
		close(ch)
	}
	a.subsMu.Unlock()

	return errors.Join(errs...)
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Activity returns the motion-driven frame rate monitor.
func (a *App) Activity() *capture.ActivityMonitor {
	return a.activity
}
