package main

import (
	"context"
	"math"
	"testing"

	"github.com/vovakirdan/wasm-arcade/internal/bridge"
	"github.com/vovakirdan/wasm-arcade/internal/core"
	"github.com/vovakirdan/wasm-arcade/internal/registry"
	"github.com/vovakirdan/wasm-arcade/internal/session"
)

type keyAt struct {
	frame int
	code  core.KeyCode
}

// recorderSim records what the host delivers on each frame.
type recorderSim struct {
	imports bridge.Imports
	frame   int
	deltas  []float64
	events  []keyAt
	polled  []keyAt
}

func (p *recorderSim) Init(context.Context, uint32, uint32) error { return nil }

func (p *recorderSim) Update(_ context.Context, delta float64) error {
	p.frame++
	p.deltas = append(p.deltas, delta)
	for _, code := range core.AllKeyCodes {
		if p.imports.IsKeyDown(uint32(code)) {
			p.polled = append(p.polled, keyAt{p.frame, code})
		}
	}
	return nil
}

func (p *recorderSim) Render(context.Context) error { return nil }

func (p *recorderSim) KeyEvent(_ context.Context, code core.KeyCode) error {
	// Key events are drained before the frame's update.
	p.events = append(p.events, keyAt{p.frame + 1, code})
	return nil
}

func (p *recorderSim) Info(context.Context) (uint32, uint32, bool, error) { return 0, 0, false, nil }
func (p *recorderSim) Close(context.Context) error                        { return nil }

var lastRecorder *recorderSim

func init() {
	registry.Register("run-recorder", "Run Recorder", func(imports bridge.Imports, _ int64) bridge.Simulation {
		lastRecorder = &recorderSim{imports: imports}
		return lastRecorder
	})
}

type blankSurface struct{}

func (blankSurface) SetFillColor(core.Color)                    {}
func (blankSurface) SetStrokeColor(core.Color)                  {}
func (blankSurface) SetFont(float64)                            {}
func (blankSurface) SetTextAlign(core.TextAlign)                {}
func (blankSurface) FillRect(_, _, _, _ float64)                {}
func (blankSurface) StrokeRect(_, _, _, _ float64)              {}
func (blankSurface) FillText(string, float64, float64)          {}
func (blankSurface) MeasureText(text string, _ float64) float64 { return float64(len(text)) }

func launchRecorder(t *testing.T, model core.InputModel) *session.Session {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Input = model
	cfg.Step = core.StepVariable
	s, err := session.Launch(context.Background(), session.Options{
		Cartridge: "run-recorder",
		Config:    cfg,
		Surface:   blankSurface{},
	})
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestParsePresses(t *testing.T) {
	got, err := parsePresses([]string{"3:up", "3:Left", "10: accept "})
	if err != nil {
		t.Fatalf("parsePresses() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(got))
	}
	if keys := got[3]; len(keys) != 2 || keys[0] != core.KeyLeft || keys[1] != core.KeyUp {
		t.Errorf("frame 3 = %v, want [Left Up]", keys)
	}
	if keys := got[10]; len(keys) != 1 || keys[0] != core.KeyAccept {
		t.Errorf("frame 10 = %v, want [Accept]", keys)
	}
}

func TestParsePressesInvalid(t *testing.T) {
	for _, arg := range []string{"up", "0:up", "x:up", "4:jump"} {
		if _, err := parsePresses([]string{arg}); err == nil {
			t.Errorf("parsePresses(%q) should fail", arg)
		}
	}
}

func TestDriveFramesCountsAndTiming(t *testing.T) {
	s := launchRecorder(t, core.InputEdge)

	driveFrames(context.Background(), s.Bridge, 5, 50, nil)

	if got := s.Bridge.Frames(); got != 5 {
		t.Fatalf("Frames() = %d, want 5", got)
	}
	if len(lastRecorder.deltas) != 5 {
		t.Fatalf("expected 5 updates, got %d", len(lastRecorder.deltas))
	}
	for i, d := range lastRecorder.deltas {
		if math.Abs(d-0.02) > 1e-9 {
			t.Errorf("delta[%d] = %v, want 0.02", i, d)
		}
	}
}

func TestDriveFramesEdgePresses(t *testing.T) {
	s := launchRecorder(t, core.InputEdge)
	presses := map[uint64][]core.KeyCode{
		1: {core.KeyUp},
		4: {core.KeyAccept},
	}

	driveFrames(context.Background(), s.Bridge, 6, 60, presses)

	want := []keyAt{{1, core.KeyUp}, {4, core.KeyAccept}}
	if len(lastRecorder.events) != len(want) {
		t.Fatalf("events = %v, want %v", lastRecorder.events, want)
	}
	for i := range want {
		if lastRecorder.events[i] != want[i] {
			t.Errorf("event[%d] = %v, want %v", i, lastRecorder.events[i], want[i])
		}
	}
}

func TestDriveFramesPolledHoldsOneFrame(t *testing.T) {
	s := launchRecorder(t, core.InputPolled)
	presses := map[uint64][]core.KeyCode{2: {core.KeyLeft}}

	driveFrames(context.Background(), s.Bridge, 4, 60, presses)

	if len(lastRecorder.events) != 0 {
		t.Errorf("polled model should not dispatch key events, got %v", lastRecorder.events)
	}
	want := []keyAt{{2, core.KeyLeft}}
	if len(lastRecorder.polled) != 1 || lastRecorder.polled[0] != want[0] {
		t.Errorf("held keys = %v, want %v", lastRecorder.polled, want)
	}
}

func TestDriveFramesStopsOnCancel(t *testing.T) {
	s := launchRecorder(t, core.InputEdge)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	driveFrames(ctx, s.Bridge, 10, 60, nil)

	if got := s.Bridge.Frames(); got != 0 {
		t.Errorf("Frames() = %d after cancel, want 0", got)
	}
}
