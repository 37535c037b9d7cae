package engine

import (
	"time"

	"github.com/ayusman/airsketch/internal/gesture"
)

// CommandKind tags the variant carried by a Command.
type CommandKind string

const (
	CommandIdle      CommandKind = "idle"
	CommandDraw      CommandKind = "draw"
	CommandErase     CommandKind = "erase"
	CommandHighlight CommandKind = "highlight"
	CommandCommit    CommandKind = "commit"
)

// StrokeSegment extends a stroke to (X, Y). Start marks the first segment of
// a new stroke, which must not be joined to the previous one.
type StrokeSegment struct {
	StrokeID string  `json:"strokeId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	Color    string  `json:"color"`
	Start    bool    `json:"start"`
}

// EraseArea clears a disc of the canvas.
type EraseArea struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Command is the per-tick output consumed by the renderer. Only the field
// matching Kind is set. A highlight with an empty TargetID clears the
// highlight; a commit also clears it.
type Command struct {
	Kind     CommandKind    `json:"kind"`
	Stroke   *StrokeSegment `json:"stroke,omitempty"`
	Erase    *EraseArea     `json:"erase,omitempty"`
	TargetID string         `json:"targetId,omitempty"`
}

// IdleCommand returns the no-op command.
func IdleCommand() Command {
	return Command{Kind: CommandIdle}
}

// DrawCommand returns a stroke segment command.
func DrawCommand(seg StrokeSegment) Command {
	return Command{Kind: CommandDraw, Stroke: &seg}
}

// EraseCommand returns an erase command.
func EraseCommand(area EraseArea) Command {
	return Command{Kind: CommandErase, Erase: &area}
}

// HighlightCommand highlights the target with id, or clears the highlight
// when id is empty.
func HighlightCommand(id string) Command {
	return Command{Kind: CommandHighlight, TargetID: id}
}

// CommitCommand reports that the target with id was selected.
func CommitCommand(id string) Command {
	return Command{Kind: CommandCommit, TargetID: id}
}

// Frame is everything one tick produces.
type Frame struct {
	Mode    Mode          `json:"mode"`
	Gesture gesture.State `json:"gesture"`
	Command Command       `json:"command"`
	Time    time.Time     `json:"time"`
}
