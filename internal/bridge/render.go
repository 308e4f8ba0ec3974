package bridge

import "github.com/vovakirdan/wasm-arcade/internal/core"

// RenderBridge translates the simulation's drawing calls into Surface
// operations. Every call is synchronous. Paint state is set on every call
// and never restored.
type RenderBridge struct {
	surface Surface
	diag    *Diagnostics
}

// NewRenderBridge creates a render bridge drawing onto surface.
func NewRenderBridge(surface Surface, diag *Diagnostics) *RenderBridge {
	return &RenderBridge{surface: surface, diag: diag}
}

// Surface returns the surface calls are forwarded to.
func (r *RenderBridge) Surface() Surface {
	return r.surface
}

// FillRect fills an axis-aligned rectangle.
func (r *RenderBridge) FillRect(x, y, w, h float64, color core.Color) {
	r.surface.SetFillColor(color)
	r.surface.FillRect(x, y, w, h)
}

// StrokeRect outlines an axis-aligned rectangle.
func (r *RenderBridge) StrokeRect(x, y, w, h float64, color core.Color) {
	r.surface.SetStrokeColor(color)
	r.surface.StrokeRect(x, y, w, h)
}

// MeasureText returns the width of the string at textRef rendered at sizePx.
// A string that cannot be decoded is diagnosed and measures as zero.
func (r *RenderBridge) MeasureText(mem Memory, textRef uint32, sizePx float64) (float64, error) {
	text, err := ReadCString(mem.View(), textRef)
	if err != nil {
		return 0, r.diag.CallFailed("measureText", textRef, err)
	}
	return r.surface.MeasureText(text, sizePx), nil
}

// DrawText renders the string at textRef anchored at (x, y). An unknown
// alignment value is diagnosed and drawn left-aligned; an undecodable string
// aborts the call before the surface is touched.
func (r *RenderBridge) DrawText(mem Memory, x, y float64, textRef uint32, sizePx float64, color core.Color, align uint32) error {
	text, err := ReadCString(mem.View(), textRef)
	if err != nil {
		return r.diag.CallFailed("drawText", textRef, err)
	}
	a, err := core.ParseTextAlign(align)
	if err != nil {
		r.diag.Report(LevelError, "drawText: "+err.Error())
	}

	r.surface.SetFillColor(color)
	r.surface.SetFont(sizePx)
	r.surface.SetTextAlign(a)
	r.surface.FillText(text, x, y)
	return nil
}

// FillText is the older five-argument text call: left-aligned, no
// alignment argument.
func (r *RenderBridge) FillText(mem Memory, x, y float64, textRef uint32, sizePx float64, color core.Color) error {
	return r.DrawText(mem, x, y, textRef, sizePx, color, uint32(core.AlignLeft))
}
