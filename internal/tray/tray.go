// Package tray provides a system tray status display for the airsketch
// drawing controller.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/airsketch/internal/engine"
	"github.com/ayusman/airsketch/internal/gesture"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onOpen   func()
	onClear  func()
	onQuit   func()
	enabled  bool
	mode     engine.Mode
	gesture  gesture.Type
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle  *systray.MenuItem
	menuMode    *systray.MenuItem
	menuGesture *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
		mode:    engine.Idle,
		gesture: gesture.None,
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpen sets the callback for the "Open Canvas" menu item.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnClear sets the callback for the "Clear Canvas" menu item.
func (t *Tray) OnClear(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
func (t *Tray) onReady() {
	systray.SetTitle("airsketch")
	systray.SetTooltip("airsketch air drawing")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle hand tracking")
	systray.AddSeparator()

	t.menuMode = systray.AddMenuItem(modeTitle(t.mode), "Current drawing mode")
	t.menuMode.Disable()
	t.menuGesture = systray.AddMenuItem(gestureTitle(t.gesture, 0), "Current hand gesture")
	t.menuGesture.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Canvas...", "Open the canvas in the browser")
	menuClear := systray.AddMenuItem("Clear Canvas", "Erase the whole drawing")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit airsketch")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.call(&t.onOpen)
			case <-menuClear.ClickedCh:
				t.call(&t.onClear)
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// call runs the callback stored in *fn, which is guarded by t.mu.
func (t *Tray) call(fn *func()) {
	t.mu.RLock()
	callback := *fn
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.call(&t.onQuit)
	systray.Quit()
}

// Update shows the mode and gesture of f. It reports whether anything
// visible changed; confidence alone does not count.
func (t *Tray) Update(f engine.Frame) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if f.Mode == t.mode && f.Gesture.Type == t.gesture {
		return false
	}
	t.mode = f.Mode
	t.gesture = f.Gesture.Type

	if t.menuMode != nil {
		t.menuMode.SetTitle(modeTitle(f.Mode))
	}
	if t.menuGesture != nil {
		t.menuGesture.SetTitle(gestureTitle(f.Gesture.Type, f.Gesture.Confidence))
	}
	return true
}

// Watch applies every frame from frames until the channel closes.
func (t *Tray) Watch(frames <-chan engine.Frame) {
	for f := range frames {
		t.Update(f)
	}
}

// Mode returns the last displayed mode.
func (t *Tray) Mode() engine.Mode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

// Gesture returns the last displayed gesture.
func (t *Tray) Gesture() gesture.Type {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.gesture
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Tracking"
	}
	return "○ Paused"
}

func modeTitle(m engine.Mode) string {
	return "Mode: " + string(m)
}

func gestureTitle(g gesture.Type, confidence float64) string {
	if g == gesture.None {
		return "Gesture: none"
	}
	return fmt.Sprintf("Gesture: %s (%.0f%%)", g, confidence*100)
}
