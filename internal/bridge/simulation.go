package bridge

import (
	"context"

	"github.com/vovakirdan/wasm-arcade/internal/core"
)

// Simulation is the entry-point contract of a loaded game simulation.
// Every method runs synchronously; the simulation calls back into Imports
// while it executes.
type Simulation interface {
	// Init sets up the simulation for a canvas of the given size.
	Init(ctx context.Context, width, height uint32) error
	// Update advances the simulation by delta seconds.
	Update(ctx context.Context, delta float64) error
	// Render issues the drawing calls for the current state.
	Render(ctx context.Context) error
	// KeyEvent delivers one discrete key press (edge model).
	KeyEvent(ctx context.Context, code core.KeyCode) error
	// Info returns the canvas size the simulation wants, when it decides
	// one itself. ok is false when the simulation leaves it to the host.
	Info(ctx context.Context) (width, height uint32, ok bool, err error)
	// Close releases the simulation's resources.
	Close(ctx context.Context) error
}

// Imports is the set of host functions a simulation may call. String
// arguments are offsets into mem, which the callee reads at once.
type Imports interface {
	FillRect(x, y, w, h float64, color uint32)
	StrokeRect(x, y, w, h float64, color uint32)
	FillText(mem Memory, x, y float64, textRef uint32, sizePx float64, color uint32)
	DrawText(mem Memory, x, y float64, textRef uint32, sizePx float64, color, align uint32)
	MeasureText(mem Memory, textRef uint32, sizePx float64) float64
	// Panic reports a fatal condition. The returned error is non-nil and
	// the simulation must not continue the current call.
	Panic(mem Memory, fileRef, line, msgRef uint32) error
	Log(mem Memory, msgRef uint32)
	IsKeyDown(code uint32) bool
}
