package bridge

import (
	"context"
	"fmt"
)

// FixedDelta is the update step used in fixed-step mode, in seconds.
const FixedDelta = 1.0 / 60.0

// SchedulerState is the frame scheduler's lifecycle state.
type SchedulerState int

const (
	// Priming waits for the first timestamp.
	Priming SchedulerState = iota
	// Running calls the frame function on every tick.
	Running
	// Stopped ignores ticks and never re-arms.
	Stopped
)

func (s SchedulerState) String() string {
	switch s {
	case Priming:
		return "priming"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("SchedulerState(%d)", int(s))
	}
}

// FrameRequester asks the host for another frame callback. Hosts whose
// loop ticks unconditionally (ebiten, a Bubble Tea ticker) may pass nil
// to Start and check Stopped instead.
type FrameRequester interface {
	RequestFrame()
}

// FrameRequesterFunc adapts a plain function to FrameRequester.
type FrameRequesterFunc func()

// RequestFrame calls f.
func (f FrameRequesterFunc) RequestFrame() { f() }

// FrameFunc runs one frame with the given delta in seconds.
type FrameFunc func(ctx context.Context, delta float64) error

// FrameScheduler sequences frames on the host's per-frame callback. The
// first tick only records its timestamp; every later tick computes the
// delta and runs the frame. An error from the frame stops the scheduler.
type FrameScheduler struct {
	step      StepModeFunc
	frame     FrameFunc
	onError   func(error)
	requester FrameRequester

	state  SchedulerState
	prev   float64
	frames uint64
}

// StepModeFunc turns two timestamps (ms) into an update delta (s).
type StepModeFunc func(prev, now float64) float64

// VariableStep passes the measured time between frames, never negative.
func VariableStep(prev, now float64) float64 {
	delta := (now - prev) * 0.001
	if delta < 0 {
		return 0
	}
	return delta
}

// FixedStep always passes FixedDelta.
func FixedStep(_, _ float64) float64 {
	return FixedDelta
}

// NewFrameScheduler creates a scheduler in the Priming state. onError is
// called once, with the first error a frame returns; it may be nil.
func NewFrameScheduler(step StepModeFunc, frame FrameFunc, onError func(error)) *FrameScheduler {
	if step == nil {
		step = VariableStep
	}
	return &FrameScheduler{step: step, frame: frame, onError: onError}
}

// Start arms the first frame.
func (s *FrameScheduler) Start(requester FrameRequester) {
	s.requester = requester
	s.rearm()
}

// Tick handles one host frame callback at timestamp ts (milliseconds). It
// reports whether the scheduler re-armed for another frame.
func (s *FrameScheduler) Tick(ctx context.Context, ts float64) bool {
	switch s.state {
	case Stopped:
		return false
	case Priming:
		s.prev = ts
		s.state = Running
		return s.rearm()
	}

	delta := s.step(s.prev, ts)
	s.prev = ts
	s.frames++
	if err := s.frame(ctx, delta); err != nil {
		s.fail(err)
	}
	return s.rearm()
}

// Stop prevents any further frame. It is safe to call from inside a frame.
func (s *FrameScheduler) Stop() {
	s.state = Stopped
}

// Stopped reports whether the scheduler has halted.
func (s *FrameScheduler) Stopped() bool {
	return s.state == Stopped
}

// State returns the current lifecycle state.
func (s *FrameScheduler) State() SchedulerState {
	return s.state
}

// Frames returns how many frames have run.
func (s *FrameScheduler) Frames() uint64 {
	return s.frames
}

func (s *FrameScheduler) fail(err error) {
	// A fatal report during the frame has already stopped us.
	if s.state == Stopped {
		return
	}
	s.state = Stopped
	if s.onError != nil {
		s.onError(err)
	}
}

func (s *FrameScheduler) rearm() bool {
	if s.state == Stopped {
		return false
	}
	if s.requester != nil {
		s.requester.RequestFrame()
	}
	return true
}
