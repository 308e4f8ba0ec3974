package gui

import (
	"testing"

	"github.com/vovakirdan/wasm-arcade/internal/core"
)

func TestFitLetterboxes(t *testing.T) {
	tests := []struct {
		name              string
		cw, ch, ww, wh    int
		scale, offX, offY float64
	}{
		{"exact", 1600, 900, 800, 450, 0.5, 0, 0},
		{"pillarbox", 1600, 900, 1000, 450, 0.5, 100, 0},
		{"letterbox", 1600, 900, 800, 650, 0.5, 0, 100},
		{"degenerate", 0, 900, 800, 450, 1, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := fit(tc.cw, tc.ch, tc.ww, tc.wh)
			if l.scale != tc.scale || l.offX != tc.offX || l.offY != tc.offY {
				t.Errorf("fit() = %+v, expected scale %v offset (%v, %v)", l, tc.scale, tc.offX, tc.offY)
			}
		})
	}
}

func TestToCanvasInvertsFit(t *testing.T) {
	l := fit(1600, 900, 1000, 450)
	x, y := l.toCanvas(100, 0)
	if x != 0 || y != 0 {
		t.Errorf("window origin of the canvas maps to (%v, %v)", x, y)
	}
	x, y = l.toCanvas(900, 450)
	if x != 1600 || y != 900 {
		t.Errorf("window far corner maps to (%v, %v)", x, y)
	}
}

func TestReleasedCodesWaitsForSharedKeys(t *testing.T) {
	table := map[string]core.KeyCode{
		"left":  core.KeyLeft,
		"a":     core.KeyLeft,
		"enter": core.KeyAccept,
	}
	down := map[string]bool{"left": true}
	pressed := func(k string) bool { return down[k] }

	if got := releasedCodes(table, []string{"a"}, pressed); len(got) != 0 {
		t.Errorf("releasing A while Left is held released %v", got)
	}

	down["left"] = false
	got := releasedCodes(table, []string{"left"}, pressed)
	if len(got) != 1 || got[0] != core.KeyLeft {
		t.Errorf("releasing the last Left key = %v, expected [Left]", got)
	}

	got = releasedCodes(table, []string{"a", "left", "enter", "unmapped"}, pressed)
	if len(got) != 2 || got[0] != core.KeyLeft || got[1] != core.KeyAccept {
		t.Errorf("releasing both at once = %v, expected [Left Accept]", got)
	}
}
