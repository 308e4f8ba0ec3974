package bridge

import (
	"sort"

	"github.com/vovakirdan/wasm-arcade/internal/core"
)

type eventKind int

const (
	evKeyDown eventKind = iota
	evKeyUp
	evPointerDown
	evPointerMove
	evPointerUp
)

// inputEvent is a normalised host input event waiting for the next drain.
type inputEvent struct {
	kind eventKind
	code core.KeyCode
	x, y float64
	ts   float64 // milliseconds, pointer events only
}

// InputTracker normalises host input. Host callbacks only enqueue; the
// frame scheduler drains the queue once per tick before update, so events
// are applied strictly in delivery order and never interleave with a frame.
type InputTracker struct {
	model     core.InputModel
	threshold float64

	queue   []inputEvent
	held    map[core.KeyCode]struct{} // KeyState, polled model only
	pulses  map[core.KeyCode]struct{} // gesture keys held for one drain
	gesture gestureSample
}

// NewInputTracker creates a tracker for the given input model. A
// non-positive threshold selects DefaultGestureThreshold.
func NewInputTracker(model core.InputModel, threshold float64) *InputTracker {
	if threshold <= 0 {
		threshold = DefaultGestureThreshold
	}
	return &InputTracker{
		model:     model,
		threshold: threshold,
		held:      make(map[core.KeyCode]struct{}),
		pulses:    make(map[core.KeyCode]struct{}),
	}
}

// Model returns the input model chosen at construction.
func (t *InputTracker) Model() core.InputModel {
	return t.model
}

// KeyDown enqueues a key press. Invalid codes are dropped.
func (t *InputTracker) KeyDown(code core.KeyCode) {
	if code.Valid() {
		t.queue = append(t.queue, inputEvent{kind: evKeyDown, code: code})
	}
}

// KeyUp enqueues a key release.
func (t *InputTracker) KeyUp(code core.KeyCode) {
	if code.Valid() {
		t.queue = append(t.queue, inputEvent{kind: evKeyUp, code: code})
	}
}

// PointerDown enqueues the start of a pointer contact at time ts (ms).
func (t *InputTracker) PointerDown(x, y, ts float64) {
	t.queue = append(t.queue, inputEvent{kind: evPointerDown, x: x, y: y, ts: ts})
}

// PointerMove enqueues pointer motion.
func (t *InputTracker) PointerMove(x, y float64) {
	t.queue = append(t.queue, inputEvent{kind: evPointerMove, x: x, y: y})
}

// PointerUp enqueues the end of the current contact at time ts (ms).
func (t *InputTracker) PointerUp(ts float64) {
	t.queue = append(t.queue, inputEvent{kind: evPointerUp, ts: ts})
}

// Pending returns the number of queued events.
func (t *InputTracker) Pending() int {
	return len(t.queue)
}

// Drain applies every queued event in order. Each classified gesture calls
// dispatch once in both models. In the edge model each key press calls
// dispatch too. In the polled model presses and releases update the key
// state, and a gesture also holds its key until the next drain. The queue is empty afterwards even when
// dispatch fails; the first dispatch error is returned.
func (t *InputTracker) Drain(dispatch func(core.KeyCode) error) error {
	queue := t.queue
	t.queue = t.queue[:0]
	clear(t.pulses)

	for _, ev := range queue {
		switch ev.kind {
		case evKeyDown:
			if t.model == core.InputEdge {
				if err := dispatch(ev.code); err != nil {
					return err
				}
				continue
			}
			t.held[ev.code] = struct{}{}
		case evKeyUp:
			if t.model == core.InputPolled {
				delete(t.held, ev.code)
			}
		case evPointerDown:
			t.gesture.begin(ev.x, ev.y, ev.ts)
		case evPointerMove:
			t.gesture.move(ev.x, ev.y)
		case evPointerUp:
			code, ok := t.gesture.end(ev.ts, t.threshold)
			if !ok {
				continue
			}
			if t.model == core.InputPolled {
				t.pulses[code] = struct{}{}
			}
			if err := dispatch(code); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsKeyDown reports whether code is currently held. Always false in the
// edge model.
func (t *InputTracker) IsKeyDown(code core.KeyCode) bool {
	if _, ok := t.held[code]; ok {
		return true
	}
	_, ok := t.pulses[code]
	return ok
}

// Held returns the held keys in code order.
func (t *InputTracker) Held() []core.KeyCode {
	keys := make([]core.KeyCode, 0, len(t.held)+len(t.pulses))
	for k := range t.held {
		keys = append(keys, k)
	}
	for k := range t.pulses {
		if _, dup := t.held[k]; !dup {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Reset drops queued events, held keys and any contact in progress.
func (t *InputTracker) Reset() {
	t.queue = t.queue[:0]
	clear(t.held)
	clear(t.pulses)
	t.gesture = gestureSample{}
}
