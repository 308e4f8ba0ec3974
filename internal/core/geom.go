// Package core provides fundamental types shared by the bridge and its hosts.
// It has no host dependencies (no Bubble Tea, no ebiten, no wazero) so the
// boundary types stay pure and testable.
package core

import "math"

// Rect represents an axis-aligned rectangle in cell coordinates.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersect returns the overlap of two rectangles; the result may be Empty.
func (r Rect) Intersect(other Rect) Rect {
	x0 := Max(r.X, other.X)
	y0 := Max(r.Y, other.Y)
	x1 := Min(r.Right(), other.Right())
	y1 := Min(r.Bottom(), other.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Scale maps logical canvas coordinates onto a coarser grid where one
// grid unit spans 1/sx by 1/sy logical units.
type Scale struct {
	SX, SY float64
}

// NewScale returns the scale that fits a canvas of cw x ch logical units
// into a grid of gw x gh cells.
func NewScale(cw, ch, gw, gh int) Scale {
	if cw <= 0 || ch <= 0 {
		return Scale{SX: 1, SY: 1}
	}
	return Scale{SX: float64(gw) / float64(cw), SY: float64(gh) / float64(ch)}
}

// Rect projects a logical rectangle onto the grid. Edges are rounded so that
// adjacent logical rectangles stay adjacent on the grid.
func (s Scale) Rect(x, y, w, h float64) Rect {
	x0 := int(math.Round(x * s.SX))
	y0 := int(math.Round(y * s.SY))
	x1 := int(math.Round((x + w) * s.SX))
	y1 := int(math.Round((y + h) * s.SY))
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Point projects a logical point onto the grid cell containing it.
func (s Scale) Point(x, y float64) (int, int) {
	return int(math.Floor(x * s.SX)), int(math.Floor(y * s.SY))
}

// Unproject maps a grid cell back to the logical coordinates of its centre.
func (s Scale) Unproject(cx, cy int) (float64, float64) {
	if s.SX == 0 || s.SY == 0 {
		return 0, 0
	}
	return (float64(cx) + 0.5) / s.SX, (float64(cy) + 0.5) / s.SY
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
