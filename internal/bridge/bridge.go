// Package bridge connects a loaded game simulation to a host drawing
// surface, clock and input devices. A Bridge owns every piece of
// per-instance state; hosts construct one per running simulation and feed
// it input events and frame callbacks from a single goroutine.
package bridge

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wasm-arcade/internal/core"
)

// Bridge is the context object for one running simulation.
type Bridge struct {
	cfg    core.RuntimeConfig
	logger *log.Logger

	render *RenderBridge
	input  *InputTracker
	diag   *Diagnostics
	sched  *FrameScheduler

	sim           Simulation
	width, height uint32
}

// New creates a bridge drawing onto surface and reporting to sink. The
// simulation is attached separately because it needs the bridge's imports
// to be instantiated.
func New(cfg core.RuntimeConfig, surface Surface, sink Sink, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	diag := NewDiagnostics(sink)
	b := &Bridge{
		cfg:    cfg,
		logger: logger,
		render: NewRenderBridge(surface, diag),
		input:  NewInputTracker(cfg.Input, cfg.GestureThreshold),
		diag:   diag,
		width:  uint32(cfg.CanvasW),
		height: uint32(cfg.CanvasH),
	}
	step := VariableStep
	if cfg.Step == core.StepFixed {
		step = FixedStep
	}
	b.sched = NewFrameScheduler(step, b.frame, diag.Fatal)
	diag.OnFatal(func(err error) {
		b.logger.Debug("halting scheduler", "error", err, "frames", b.sched.Frames())
		b.sched.Stop()
	})
	return b
}

// Attach binds the simulation the bridge drives.
func (b *Bridge) Attach(sim Simulation) {
	b.sim = sim
}

// Boot sizes the canvas and calls the simulation's init entry point. A
// simulation that reports its own size overrides the configured canvas.
// Failure is fatal: the scheduler is stopped and the error returned.
func (b *Bridge) Boot(ctx context.Context) error {
	if b.sim == nil {
		return errNoSimulation
	}
	w, h, ok, err := b.sim.Info(ctx)
	if err != nil {
		return b.fatal(&TrapError{Export: "info", Err: err})
	}
	if ok && w > 0 && h > 0 {
		b.width, b.height = w, h
	}
	if err := b.sim.Init(ctx, b.width, b.height); err != nil {
		return b.fatal(&TrapError{Export: "init", Err: err})
	}
	if err := b.diag.Err(); err != nil {
		return err
	}
	b.logger.Debug("simulation booted",
		"width", b.width,
		"height", b.height,
		"input", b.cfg.Input,
		"step", b.cfg.Step,
	)
	return nil
}

// Start arms the frame loop. requester may be nil for hosts that tick
// unconditionally.
func (b *Bridge) Start(requester FrameRequester) {
	b.sched.Start(requester)
}

// Tick is the host's per-frame callback; ts is in milliseconds. It reports
// whether another frame is wanted.
func (b *Bridge) Tick(ctx context.Context, ts float64) bool {
	return b.sched.Tick(ctx, ts)
}

// Stop halts the frame loop without reporting anything.
func (b *Bridge) Stop() {
	b.sched.Stop()
}

// Close stops the loop and releases the simulation.
func (b *Bridge) Close(ctx context.Context) error {
	b.sched.Stop()
	if b.sim == nil {
		return nil
	}
	return b.sim.Close(ctx)
}

// Halted reports whether the frame loop has stopped.
func (b *Bridge) Halted() bool {
	return b.sched.Stopped()
}

// Err returns the fatal condition that halted the bridge, if any.
func (b *Bridge) Err() error {
	return b.diag.Err()
}

// CanvasSize returns the logical canvas size passed to init.
func (b *Bridge) CanvasSize() (width, height uint32) {
	return b.width, b.height
}

// Config returns the configuration the bridge was built with.
func (b *Bridge) Config() core.RuntimeConfig {
	return b.cfg
}

// Frames returns how many frames have run.
func (b *Bridge) Frames() uint64 {
	return b.sched.Frames()
}

// Input returns the input tracker hosts feed events into.
func (b *Bridge) Input() *InputTracker {
	return b.input
}

// Diagnostics returns the diagnostics bridge.
func (b *Bridge) Diagnostics() *Diagnostics {
	return b.diag
}

// Surface returns the drawing surface.
func (b *Bridge) Surface() Surface {
	return b.render.Surface()
}

func (b *Bridge) frame(ctx context.Context, delta float64) error {
	if b.sim == nil {
		return errNoSimulation
	}
	err := b.input.Drain(func(code core.KeyCode) error {
		if err := b.sim.KeyEvent(ctx, code); err != nil {
			return &TrapError{Export: "keyEvent", Err: err}
		}
		if b.sched.Stopped() {
			return ErrStopped
		}
		return nil
	})
	if errors.Is(err, ErrStopped) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := b.sim.Update(ctx, delta); err != nil {
		return &TrapError{Export: "update", Err: err}
	}
	if b.sched.Stopped() {
		return nil
	}
	if err := b.sim.Render(ctx); err != nil {
		return &TrapError{Export: "render", Err: err}
	}
	return nil
}

func (b *Bridge) fatal(err error) error {
	if b.diag.Err() == nil {
		b.diag.Fatal(err)
	}
	b.sched.Stop()
	return err
}

// FillRect implements Imports.
func (b *Bridge) FillRect(x, y, w, h float64, color uint32) {
	b.render.FillRect(x, y, w, h, core.Color(color))
}

// StrokeRect implements Imports.
func (b *Bridge) StrokeRect(x, y, w, h float64, color uint32) {
	b.render.StrokeRect(x, y, w, h, core.Color(color))
}

// FillText implements Imports. Decode failures are reported and the call
// draws nothing.
func (b *Bridge) FillText(mem Memory, x, y float64, textRef uint32, sizePx float64, color uint32) {
	_ = b.render.FillText(mem, x, y, textRef, sizePx, core.Color(color))
}

// DrawText implements Imports.
func (b *Bridge) DrawText(mem Memory, x, y float64, textRef uint32, sizePx float64, color, align uint32) {
	_ = b.render.DrawText(mem, x, y, textRef, sizePx, core.Color(color), align)
}

// MeasureText implements Imports. An unreadable string measures zero.
func (b *Bridge) MeasureText(mem Memory, textRef uint32, sizePx float64) float64 {
	w, _ := b.render.MeasureText(mem, textRef, sizePx)
	return w
}

// Panic implements Imports.
func (b *Bridge) Panic(mem Memory, fileRef, line, msgRef uint32) error {
	return b.diag.Panic(mem, fileRef, line, msgRef)
}

// Log implements Imports.
func (b *Bridge) Log(mem Memory, msgRef uint32) {
	_ = b.diag.Log(mem, msgRef)
}

// IsKeyDown implements Imports.
func (b *Bridge) IsKeyDown(code uint32) bool {
	return b.input.IsKeyDown(core.KeyCode(code))
}

var _ Imports = (*Bridge)(nil)
