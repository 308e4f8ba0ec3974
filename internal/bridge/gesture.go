package bridge

import (
	"math"

	"github.com/vovakirdan/wasm-arcade/internal/core"
)

// DefaultGestureThreshold is the swipe intensity (pixels per millisecond)
// a contact must exceed to count as a gesture; slow drags stay below it.
const DefaultGestureThreshold = 0.2

// gestureSample tracks one pointer contact.
type gestureSample struct {
	active         bool
	startX, startY float64
	startTS        float64 // milliseconds
	curX, curY     float64
}

func (g *gestureSample) begin(x, y, ts float64) {
	*g = gestureSample{active: true, startX: x, startY: y, startTS: ts, curX: x, curY: y}
}

func (g *gestureSample) move(x, y float64) {
	if !g.active {
		return
	}
	g.curX, g.curY = x, y
}

// end closes the contact and classifies it.
func (g *gestureSample) end(ts, threshold float64) (core.KeyCode, bool) {
	if !g.active {
		return 0, false
	}
	dx := g.curX - g.startX
	dy := g.curY - g.startY
	dt := ts - g.startTS
	*g = gestureSample{}
	return ClassifySwipe(dx, dy, dt, threshold)
}

// ClassifySwipe maps a pointer displacement (screen coordinates, y down)
// over dt milliseconds to a direction. The circle is cut into eight wedges
// of pi/4 starting at angle 0: wedges 7 and 0 are Right, 1-2 Down,
// 3-4 Left, 5-6 Up. Contacts at or below threshold produce nothing, which
// includes every contact whose clock ran backwards.
func ClassifySwipe(dx, dy, dt, threshold float64) (core.KeyCode, bool) {
	distance := math.Hypot(dx, dy)
	if distance == 0 {
		return 0, false
	}
	// An instant contact is infinitely intense; a negative duration is not
	// a swipe at all.
	intensity := math.Inf(1)
	if dt != 0 {
		intensity = distance / dt
	}
	if !(intensity > threshold) {
		return 0, false
	}

	angle := math.Mod(math.Atan2(dy, dx), 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	wedge := int(angle / (math.Pi / 4))
	switch wedge {
	case 1, 2:
		return core.KeyDown, true
	case 3, 4:
		return core.KeyLeft, true
	case 5, 6:
		return core.KeyUp, true
	default: // 0, 7, and 8 when rounding lands exactly on 2*pi
		return core.KeyRight, true
	}
}
