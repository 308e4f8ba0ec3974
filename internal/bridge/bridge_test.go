package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/wasm-arcade/internal/core"
)

func newTestBridge(t *testing.T, mutate func(*core.RuntimeConfig)) (*Bridge, *fakeSim, *recordingSurface, *RecentSink) {
	t.Helper()
	cfg := core.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	surface := &recordingSurface{}
	recent := NewRecentSink(16)
	b := New(cfg, surface, recent, nil)
	sim := &fakeSim{}
	b.Attach(sim)
	return b, sim, surface, recent
}

func TestBridgeBootUsesConfiguredCanvas(t *testing.T) {
	b, sim, _, _ := newTestBridge(t, nil)
	require.NoError(t, b.Boot(context.Background()))
	assert.Equal(t, "init 1600x900", sim.joined())
}

func TestBridgeBootPrefersSimulationSize(t *testing.T) {
	b, sim, _, _ := newTestBridge(t, nil)
	sim.width, sim.height, sim.hasInfo = 640, 480, true
	require.NoError(t, b.Boot(context.Background()))

	w, h := b.CanvasSize()
	assert.Equal(t, uint32(640), w)
	assert.Equal(t, uint32(480), h)
	assert.Equal(t, "init 640x480", sim.joined())
}

func TestBridgeBootWithoutSimulation(t *testing.T) {
	b := New(core.DefaultConfig(), &recordingSurface{}, nil, nil)
	assert.Error(t, b.Boot(context.Background()))
}

func TestBridgeInitFailureIsFatal(t *testing.T) {
	b, sim, _, recent := newTestBridge(t, nil)
	sim.onInit = func() error { return errors.New("out of memory") }

	err := b.Boot(context.Background())
	var trap *TrapError
	require.True(t, errors.As(err, &trap))
	assert.Equal(t, "init", trap.Export)
	assert.True(t, b.Halted())

	entry, ok := recent.Last(LevelFatal)
	require.True(t, ok)
	assert.Equal(t, "simulation trapped in init: out of memory", entry.Message)
}

func TestBridgeFrameSequence(t *testing.T) {
	b, sim, _, _ := newTestBridge(t, nil)
	var deltas []float64
	sim.onUpdate = func(d float64) error {
		deltas = append(deltas, d)
		return nil
	}
	ctx := context.Background()
	require.NoError(t, b.Boot(ctx))
	b.Start(nil)

	assert.True(t, b.Tick(ctx, 1000))
	assert.Equal(t, "init 1600x900", sim.joined(), "priming tick calls nothing")

	assert.True(t, b.Tick(ctx, 1016))
	assert.Equal(t, "init 1600x900,update,render", sim.joined())
	require.Len(t, deltas, 1)
	assert.InDelta(t, 0.016, deltas[0], 1e-9)
	assert.Equal(t, uint64(1), b.Frames())
}

func TestBridgeFixedStepConfig(t *testing.T) {
	b, sim, _, _ := newTestBridge(t, func(c *core.RuntimeConfig) { c.Step = core.StepFixed })
	var deltas []float64
	sim.onUpdate = func(d float64) error {
		deltas = append(deltas, d)
		return nil
	}
	ctx := context.Background()
	require.NoError(t, b.Boot(ctx))
	b.Tick(ctx, 0)
	b.Tick(ctx, 250)
	assert.Equal(t, []float64{FixedDelta}, deltas)
}

func TestBridgeEdgeInputArrivesBeforeUpdate(t *testing.T) {
	b, sim, _, _ := newTestBridge(t, nil)
	ctx := context.Background()
	require.NoError(t, b.Boot(ctx))

	// Queued before priming: the priming tick leaves the queue alone.
	b.Input().KeyDown(core.KeyUp)
	b.Tick(ctx, 0)
	assert.Equal(t, 1, b.Input().Pending())

	b.Input().KeyDown(core.KeyAccept)
	b.Tick(ctx, 16)
	assert.Equal(t, "init 1600x900,key Up,key Accept,update,render", sim.joined())
}

func TestBridgePolledIsKeyDownDuringUpdate(t *testing.T) {
	b, sim, _, _ := newTestBridge(t, func(c *core.RuntimeConfig) { c.Input = core.InputPolled })
	var left, right bool
	sim.onUpdate = func(float64) error {
		left = b.IsKeyDown(uint32(core.KeyLeft))
		right = b.IsKeyDown(uint32(core.KeyRight))
		return nil
	}
	ctx := context.Background()
	require.NoError(t, b.Boot(ctx))
	b.Tick(ctx, 0)

	b.Input().KeyDown(core.KeyLeft)
	b.Input().KeyDown(core.KeyRight)
	b.Input().KeyUp(core.KeyLeft)
	b.Tick(ctx, 16)

	assert.False(t, left)
	assert.True(t, right)
	assert.NotContains(t, sim.joined(), "key ")
}

func TestBridgeGestureThroughPointerEvents(t *testing.T) {
	b, sim, _, _ := newTestBridge(t, nil)
	ctx := context.Background()
	require.NoError(t, b.Boot(ctx))
	b.Tick(ctx, 0)

	in := b.Input()
	in.PointerDown(800, 450, 100)
	in.PointerMove(800, 600)
	in.PointerUp(200)
	b.Tick(ctx, 16)
	assert.Contains(t, sim.joined(), "key Down,update")
}

func TestBridgePolledGestureReachesKeyEventAndPolling(t *testing.T) {
	b, sim, _, _ := newTestBridge(t, func(c *core.RuntimeConfig) { c.Input = core.InputPolled })
	var down bool
	sim.onUpdate = func(float64) error {
		down = b.IsKeyDown(uint32(core.KeyDown))
		return nil
	}
	ctx := context.Background()
	require.NoError(t, b.Boot(ctx))
	b.Tick(ctx, 0)

	in := b.Input()
	in.PointerDown(800, 450, 100)
	in.PointerMove(800, 600)
	in.PointerUp(200)
	b.Tick(ctx, 16)
	assert.Contains(t, sim.joined(), "key Down,update")
	assert.True(t, down)

	b.Tick(ctx, 32)
	assert.False(t, down, "the gesture holds its key for one frame")
}

func TestBridgePanicHaltsScheduler(t *testing.T) {
	b, sim, _, recent := newTestBridge(t, nil)
	mem := &testMemory{}
	file := mem.cstr("game.c")
	msg := mem.cstr("assertion failed")
	sim.onUpdate = func(float64) error {
		// A real simulation aborts the call after the panic import.
		return b.Panic(mem, file, 42, msg)
	}

	ctx := context.Background()
	require.NoError(t, b.Boot(ctx))
	b.Tick(ctx, 1000)
	assert.False(t, b.Tick(ctx, 1016))
	assert.False(t, b.Tick(ctx, 1032))

	assert.True(t, b.Halted())
	assert.Equal(t, "init 1600x900,update", sim.joined(), "no render and no further updates")
	assert.EqualError(t, b.Err(), "game.c:42: assertion failed")

	var fatals []string
	for _, e := range recent.Entries() {
		if e.Level == LevelFatal {
			fatals = append(fatals, e.Message)
		}
	}
	assert.Equal(t, []string{"game.c:42: assertion failed"}, fatals)
}

func TestBridgePanicDuringKeyEventSkipsUpdate(t *testing.T) {
	b, sim, _, _ := newTestBridge(t, nil)
	mem := &testMemory{}
	ref := mem.cstr("x")
	sim.onKey = func(core.KeyCode) error {
		b.Panic(mem, ref, 1, ref)
		return nil
	}
	ctx := context.Background()
	require.NoError(t, b.Boot(ctx))
	b.Tick(ctx, 0)
	b.Input().KeyDown(core.KeyLeft)
	b.Input().KeyDown(core.KeyRight)
	b.Tick(ctx, 16)

	assert.Equal(t, "init 1600x900,key Left", sim.joined())
}

func TestBridgeRenderTrapIsReported(t *testing.T) {
	b, sim, _, recent := newTestBridge(t, nil)
	sim.onRender = func() error { return errors.New("unreachable executed") }
	ctx := context.Background()
	require.NoError(t, b.Boot(ctx))
	b.Tick(ctx, 0)
	assert.False(t, b.Tick(ctx, 16))

	entry, ok := recent.Last(LevelFatal)
	require.True(t, ok)
	assert.Equal(t, "simulation trapped in render: unreachable executed", entry.Message)
}

func TestBridgeImportsDrawThroughSurface(t *testing.T) {
	b, _, surface, _ := newTestBridge(t, nil)
	mem := &testMemory{}
	ref := mem.cstr("hi")

	b.FillRect(1, 2, 3, 4, 0xFF0000FF)
	b.DrawText(mem, 10, 20, ref, 16, 0xFFFFFFFF, uint32(core.AlignRight))
	assert.Equal(t, 16.0, b.MeasureText(mem, ref, 16))
	assert.Zero(t, b.MeasureText(mem, 4096, 16))

	assert.Equal(t, []string{
		"fill #ff0000ff",
		"fillRect 1 2 3 4",
		"fill #ffffffff",
		"font 16",
		"align right",
		`text "hi" 10 20`,
	}, surface.ops)
}

func TestBridgeCloseReleasesSimulation(t *testing.T) {
	b, sim, _, _ := newTestBridge(t, nil)
	require.NoError(t, b.Close(context.Background()))
	assert.True(t, sim.closed)
	assert.True(t, b.Halted())
}
