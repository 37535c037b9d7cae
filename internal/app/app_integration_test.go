package app

import (
	"testing"
	"time"

	"github.com/ayusman/airsketch/internal/engine"
)

func TestApp_StartStop_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	h := newHarness(t)
	h.show(pointing())

	frames, cancel := h.app.Subscribe()
	defer cancel()

	if err := h.app.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := h.app.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if !h.app.Status().Running {
		t.Error("Status().Running = false after Start")
	}

	// A detected hand keeps the monitor at the active rate, so drawing
	// begins well within a second.
	deadline := time.After(3 * time.Second)
	for drawing := false; !drawing; {
		select {
		case f := <-frames:
			drawing = f.Mode == engine.Drawing
		case <-deadline:
			t.Fatal("engine never reached drawing mode")
		}
	}

	if !h.app.Activity().Active() {
		t.Error("activity monitor should be active while a hand is visible")
	}

	h.app.Stop()
	if h.app.Status().Running {
		t.Error("Status().Running = true after Stop")
	}
	if h.camera.IsOpen() {
		t.Error("camera should be closed after Stop")
	}
	if mode := h.app.Status().Frame.Mode; mode != engine.Idle {
		t.Errorf("mode after Stop = %s, want idle", mode)
	}

	// Stop is idempotent.
	h.app.Stop()
}
