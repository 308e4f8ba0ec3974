// Package gui is the desktop host. The window itself needs the ebiten
// build tag; without it Run reports ErrNoWindow.
package gui

import (
	"errors"

	"github.com/vovakirdan/wasm-arcade/internal/core"
	"github.com/vovakirdan/wasm-arcade/internal/session"
)

// ErrNoWindow is returned by Run in builds without the ebiten tag.
var ErrNoWindow = errors.New("gui: built without window support (rebuild with -tags ebiten)")

// Options configures the desktop window.
type Options struct {
	Session session.Options
	Title   string
	// Zoom is the initial window size relative to the canvas (default 0.5).
	Zoom float64
}

// letterbox is the placement of the canvas inside a window: uniformly
// scaled and centred.
type letterbox struct {
	scale      float64
	offX, offY float64
}

func fit(canvasW, canvasH, winW, winH int) letterbox {
	if canvasW <= 0 || canvasH <= 0 || winW <= 0 || winH <= 0 {
		return letterbox{scale: 1}
	}
	sx := float64(winW) / float64(canvasW)
	sy := float64(winH) / float64(canvasH)
	s := min(sx, sy)
	return letterbox{
		scale: s,
		offX:  (float64(winW) - float64(canvasW)*s) / 2,
		offY:  (float64(winH) - float64(canvasH)*s) / 2,
	}
}

// toCanvas maps a window position to canvas coordinates.
func (l letterbox) toCanvas(x, y int) (float64, float64) {
	return (float64(x) - l.offX) / l.scale, (float64(y) - l.offY) / l.scale
}

// releasedCodes returns the codes of the released keys that no other key
// mapped to the same code still holds down. Each code appears once.
func releasedCodes[K comparable](table map[K]core.KeyCode, released []K, pressed func(K) bool) []core.KeyCode {
	var out []core.KeyCode
	seen := make(map[core.KeyCode]bool)
	for _, k := range released {
		code, ok := table[k]
		if !ok || seen[code] {
			continue
		}
		seen[code] = true
		held := false
		for other, c := range table {
			if c == code && other != k && pressed(other) {
				held = true
				break
			}
		}
		if !held {
			out = append(out, code)
		}
	}
	return out
}
