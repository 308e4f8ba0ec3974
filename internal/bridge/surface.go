package bridge

import "github.com/vovakirdan/wasm-arcade/internal/core"

// Surface is the host's 2D drawing surface. It follows the canvas model:
// paint state (fill and stroke colour, font size, text alignment) is set
// by the caller and persists until changed, primitives use the current state.
// The font family is fixed when the surface is created.
type Surface interface {
	SetFillColor(c core.Color)
	SetStrokeColor(c core.Color)
	SetFont(sizePx float64)
	SetTextAlign(a core.TextAlign)

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	// FillText draws text with its baseline at y, anchored at x according
	// to the current alignment.
	FillText(text string, x, y float64)

	// MeasureText returns the advance width of text at the given size.
	// It must not change paint state.
	MeasureText(text string, sizePx float64) float64
}
