package app

import (
	"log/slog"
	"time"

	"github.com/mdobak/go-xerrors"
	"gocv.io/x/gocv"

	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/engine"
	"github.com/ayusman/airsketch/internal/landmark"
	"github.com/ayusman/airsketch/internal/store"
)

// runPipeline is the frame loop. It paces itself at the rate chosen by the
// activity monitor and exits when stopCh closes.
//
// Per frame:
// 1. Read a frame and keep a copy for the preview stream
// 2. Motion detection picks idle or active FPS
// 3. Hand detection; the first valid hand is used
// 4. Engine.Tick turns the hand into a mode and a command
// 5. The command is painted onto the canvas
// 6. Committed selections are recorded and the frame is published
func (a *App) runPipeline(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	fps := a.config.Activity.IdleFPS
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			next := a.step(now)
			if next == fps {
				continue
			}
			fps = next
			a.Camera().SetFPS(fps)
			ticker.Reset(time.Second / time.Duration(fps))
			a.logger.Debug("capture rate changed", slog.Int("fps", fps))
		}
	}
}

// step processes one frame at time now and returns the capture rate to use.
func (a *App) step(now time.Time) int {
	if !a.IsEnabled() {
		return a.activity.FPS()
	}

	frame, err := a.Camera().ReadFrame()
	if err != nil {
		a.logger.Warn("failed to read frame", slog.Any("error", xerrors.New(err)))
		return a.activity.FPS()
	}
	defer frame.Close()

	a.setPreview(frame)
	a.activity.Observe(frame, now)

	hand := a.detect(frame)
	if hand != nil {
		a.activity.Touch(now)
	}

	a.mu.Lock()
	f := a.engine.Tick(hand, now)
	if err := a.canvas.Apply(f.Command, a.tool); err != nil {
		a.logger.Error("failed to apply command",
			slog.String("kind", string(f.Command.Kind)),
			slog.Any("error", xerrors.New(err)))
	}
	a.mu.Unlock()

	if f.Command.Kind == engine.CommandCommit {
		a.recordSelection(f.Command.TargetID, now)
	}
	a.publish(f)

	return a.activity.FPS()
}

// detect returns the controlling hand in frame, or nil. Detector failures
// and malformed observations are treated as no hand.
func (a *App) detect(frame *gocv.Mat) *landmark.Hand {
	d := a.Detector()
	if d == nil {
		return nil
	}

	hands, err := d.Detect(frame)
	if err != nil {
		a.logger.Warn("hand detection failed", slog.Any("error", xerrors.New(err)))
		return nil
	}

	hand := detector.Primary(hands)
	if hand == nil {
		return nil
	}
	valid, err := landmark.New(hand.Points[:], hand.Handedness, hand.Score)
	if err != nil {
		a.logger.Debug("dropping hand", slog.Any("error", err))
		return nil
	}
	return valid
}

func (a *App) recordSelection(targetID string, now time.Time) {
	label := a.labels[targetID]
	a.logger.Info("target selected", slog.String("target", targetID), slog.String("label", label))

	if a.config.Store == nil {
		return
	}
	sel := &store.Selection{TargetID: targetID, Label: label, SelectedAt: now}
	if err := a.config.Store.Selections().Record(sel); err != nil {
		a.logger.Error("failed to record selection", slog.Any("error", xerrors.New(err)))
	}
}
