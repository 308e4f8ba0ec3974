package tui

import (
	"sort"
	"time"

	"github.com/vovakirdan/wasm-arcade/internal/core"
)

// keyHolds synthesises key releases for terminals, which only report
// presses and auto-repeats. A key counts as held until hold has passed
// since its last press or repeat.
type keyHolds struct {
	hold time.Duration
	last map[core.KeyCode]time.Time
}

func newKeyHolds(holdMS int) *keyHolds {
	if holdMS <= 0 {
		holdMS = core.DefaultConfig().KeyHoldMS
	}
	return &keyHolds{
		hold: time.Duration(holdMS) * time.Millisecond,
		last: make(map[core.KeyCode]time.Time),
	}
}

// press records a press or repeat and reports whether the key was up.
func (h *keyHolds) press(code core.KeyCode, now time.Time) bool {
	_, held := h.last[code]
	h.last[code] = now
	return !held
}

// expire returns the keys whose hold ran out by now, in code order, and
// forgets them.
func (h *keyHolds) expire(now time.Time) []core.KeyCode {
	var released []core.KeyCode
	for code, t := range h.last {
		if now.Sub(t) >= h.hold {
			released = append(released, code)
			delete(h.last, code)
		}
	}
	sort.Slice(released, func(i, j int) bool { return released[i] < released[j] })
	return released
}
