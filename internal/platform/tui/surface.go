package tui

import (
	"unicode/utf8"

	"github.com/vovakirdan/wasm-arcade/internal/bridge"
	"github.com/vovakirdan/wasm-arcade/internal/core"
)

// ScreenSurface is a bridge.Surface that paints the logical canvas onto a
// character grid. One rune of text occupies one cell, so text is measured
// in the logical width of a cell regardless of the requested size.
type ScreenSurface struct {
	screen           *core.Screen
	scale            core.Scale
	canvasW, canvasH int

	fill, stroke core.Color
	size         float64
	align        core.TextAlign
}

var _ bridge.Surface = (*ScreenSurface)(nil)

// NewScreenSurface creates a surface of cols x rows cells showing a canvas
// of canvasW x canvasH logical pixels.
func NewScreenSurface(cols, rows, canvasW, canvasH int) *ScreenSurface {
	s := &ScreenSurface{
		screen:  core.NewScreen(cols, rows),
		canvasW: canvasW,
		canvasH: canvasH,
		fill:    core.ColorBlack,
		stroke:  core.ColorBlack,
		size:    10,
	}
	s.rescale()
	return s
}

// Screen returns the cell grid.
func (s *ScreenSurface) Screen() *core.Screen {
	return s.screen
}

// Scale returns the current canvas-to-cell projection.
func (s *ScreenSurface) Scale() core.Scale {
	return s.scale
}

// SetCanvas changes the logical canvas size, e.g. after the simulation
// reported its own.
func (s *ScreenSurface) SetCanvas(w, h int) {
	s.canvasW, s.canvasH = w, h
	s.rescale()
}

// Resize changes the cell grid. Content is redrawn by the next frame.
func (s *ScreenSurface) Resize(cols, rows int) {
	s.screen.Resize(cols, rows)
	s.rescale()
}

func (s *ScreenSurface) rescale() {
	s.scale = core.NewScale(s.canvasW, s.canvasH, s.screen.Width(), s.screen.Height())
}

func (s *ScreenSurface) SetFillColor(c core.Color)     { s.fill = c }
func (s *ScreenSurface) SetStrokeColor(c core.Color)   { s.stroke = c }
func (s *ScreenSurface) SetFont(sizePx float64)        { s.size = sizePx }
func (s *ScreenSurface) SetTextAlign(a core.TextAlign) { s.align = a }

// FillRect paints cell backgrounds, compositing translucent fills over
// what is already there.
func (s *ScreenSurface) FillRect(x, y, w, h float64) {
	r := s.scale.Rect(x, y, w, h).Intersect(s.screen.Bounds())
	if s.fill.Channel(3) == 0xFF {
		s.screen.FillRect(r, s.fill)
		return
	}
	for cy := r.Y; cy < r.Bottom(); cy++ {
		for cx := r.X; cx < r.Right(); cx++ {
			under := s.screen.GetCell(cx, cy)
			s.screen.FillRect(core.NewRect(cx, cy, 1, 1), s.fill.Over(under.BG))
		}
	}
}

// StrokeRect outlines the projected rectangle with box-drawing runes.
func (s *ScreenSurface) StrokeRect(x, y, w, h float64) {
	r := s.scale.Rect(x, y, w, h)
	if r.Empty() {
		return
	}
	s.screen.DrawBox(r, s.stroke)
}

// FillText places text on the row containing the middle of the glyphs
// (the baseline sits at y, so half the font size above it).
func (s *ScreenSurface) FillText(text string, x, y float64) {
	left := s.align.Anchor(x, s.MeasureText(text, s.size))
	cx, cy := s.scale.Point(left, y-s.size/2)
	s.screen.DrawText(cx, cy, text, s.fill)
}

// MeasureText returns the logical width of one cell per rune.
func (s *ScreenSurface) MeasureText(text string, sizePx float64) float64 {
	n := float64(utf8.RuneCountInString(text))
	if s.scale.SX <= 0 {
		return n * sizePx / 2
	}
	return n / s.scale.SX
}
