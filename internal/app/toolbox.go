package app

import (
	"log/slog"

	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/engine"
)

// Brush sizes offered by the toolbox.
const (
	SizeSmall  = 5.0
	SizeMedium = 10.0
	SizeLarge  = 20.0
)

// Toolbox layout in screen pixels. Buttons are stacked top to bottom.
const (
	panelX       = 10.0
	panelY       = 10.0
	buttonWidth  = 120.0
	buttonHeight = 40.0
	buttonGap    = 8.0
)

// Target IDs of the toolbox buttons.
const (
	TargetDraw       = "tool-draw"
	TargetErase      = "tool-erase"
	TargetClear      = "clear"
	TargetSizeSmall  = "size-small"
	TargetSizeMedium = "size-medium"
	TargetSizeLarge  = "size-large"
)

type swatch struct {
	name string
	hex  string
}

var palette = []swatch{
	{"red", "#ff0000"},
	{"green", "#00ff00"},
	{"blue", "#0000ff"},
	{"yellow", "#ffff00"},
	{"purple", "#800080"},
	{"black", "#000000"},
	{"white", "#ffffff"},
}

// toolButtons is the number of non-color buttons.
const toolButtons = 6

type button struct {
	id     string
	label  string
	action func()
}

// toolbox builds the selectable targets. Their actions run inside
// Engine.Tick, which the pipeline calls with a.mu held, so they use the
// unlocked helpers.
func (a *App) toolbox() []engine.Target {
	buttons := []button{
		{TargetDraw, "Draw", a.selectTool(canvas.ToolDraw)},
		{TargetErase, "Eraser", a.selectTool(canvas.ToolErase)},
		{TargetClear, "Clear", a.canvasClear},
		{TargetSizeSmall, "Small", a.selectSize(SizeSmall)},
		{TargetSizeMedium, "Medium", a.selectSize(SizeMedium)},
		{TargetSizeLarge, "Large", a.selectSize(SizeLarge)},
	}
	for _, s := range palette {
		buttons = append(buttons, button{"color-" + s.name, "Color: " + s.name, a.selectColor(s.hex)})
	}

	targets := make([]engine.Target, len(buttons))
	for i, b := range buttons {
		targets[i] = engine.Target{
			ID:       b.id,
			Label:    b.label,
			Bounds:   engine.FixedBounds(buttonRect(i)),
			OnSelect: b.action,
		}
	}
	return targets
}

func buttonRect(i int) engine.Rect {
	return engine.Rect{
		X:      panelX,
		Y:      panelY + float64(i)*(buttonHeight+buttonGap),
		Width:  buttonWidth,
		Height: buttonHeight,
	}
}

// PanelBounds returns the rectangle enclosing every toolbox button.
func PanelBounds() engine.Rect {
	n := float64(toolButtons + len(palette))
	return engine.Rect{
		X:      panelX,
		Y:      panelY,
		Width:  buttonWidth,
		Height: n*buttonHeight + (n-1)*buttonGap,
	}
}

func (a *App) selectTool(tool canvas.Tool) func() {
	return a.action(SettingsUpdate{Tool: &tool})
}

func (a *App) selectSize(size float64) func() {
	return a.action(SettingsUpdate{Size: &size})
}

func (a *App) selectColor(hex string) func() {
	return a.action(SettingsUpdate{Color: &hex})
}

func (a *App) action(u SettingsUpdate) func() {
	return func() {
		if err := a.applySettings(u, true); err != nil {
			a.logger.Error("toolbox action failed", slog.Any("error", err))
		}
	}
}

func (a *App) canvasClear() {
	a.canvas.Clear()
}
