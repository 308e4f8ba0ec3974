package core

import (
	"strings"
)

// Cell is one character position of a Screen.
type Cell struct {
	Rune rune
	FG   Color
	BG   Color
}

var blankCell = Cell{Rune: ' ', FG: ColorWhite, BG: ColorBlack}

// Screen is a 2D character buffer the terminal host paints into.
// Colours are kept per cell so the platform can emit truecolour runs.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  width,
		height: height,
	}
	s.allocate()
	s.Clear()
	return s
}

// allocate creates the underlying cell storage.
func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// Bounds returns the screen rectangle.
func (s *Screen) Bounds() Rect {
	return NewRect(0, 0, s.width, s.height)
}

// Resize changes the screen dimensions, preserving content where possible.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}

	oldCells := s.cells
	oldW, oldH := s.width, s.height

	s.width = width
	s.height = height
	s.allocate()
	s.Clear()

	copyW := Min(oldW, width)
	copyH := Min(oldH, height)
	for y := 0; y < copyH; y++ {
		copy(s.cells[y][:copyW], oldCells[y][:copyW])
	}
}

// Clear resets every cell to a blank on black.
func (s *Screen) Clear() {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = blankCell
		}
	}
}

// Set places a rune at the given position, keeping the cell colours.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y][x].Rune = r
}

// Get returns the rune at the given position.
// Returns space for out-of-bounds coordinates.
func (s *Screen) Get(x, y int) rune {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return ' '
	}
	return s.cells[y][x].Rune
}

// GetCell returns the full cell at the given position.
func (s *Screen) GetCell(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return blankCell
	}
	return s.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y) in the given
// foreground colour. Background colours underneath are preserved, so text
// sits on whatever was filled before it. Characters beyond bounds are clipped.
func (s *Screen) DrawText(x, y int, text string, fg Color) {
	if y < 0 || y >= s.height {
		return
	}
	i := 0
	for _, r := range text {
		cx := x + i
		i++
		if cx < 0 || cx >= s.width {
			continue
		}
		s.cells[y][cx].Rune = r
		s.cells[y][cx].FG = fg
	}
}

// DrawTextCentered draws text centered horizontally at the given y position.
func (s *Screen) DrawTextCentered(y int, text string, fg Color) {
	x := (s.width - len([]rune(text))) / 2
	s.DrawText(x, y, text, fg)
}

// FillRect paints the background of every cell in r and blanks its rune.
func (s *Screen) FillRect(r Rect, bg Color) {
	r = r.Intersect(s.Bounds())
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.cells[y][x] = Cell{Rune: ' ', FG: s.cells[y][x].FG, BG: bg}
		}
	}
}

// DrawBox draws a box outline using box-drawing characters in colour fg.
func (s *Screen) DrawBox(r Rect, fg Color) {
	if r.W == 1 || r.H == 1 {
		s.DrawHLine(r.X, r.Y, r.W, '─', fg)
		s.DrawVLine(r.X, r.Y, r.H, '│', fg)
		return
	}

	s.put(r.X, r.Y, '┌', fg)
	s.put(r.Right()-1, r.Y, '┐', fg)
	s.put(r.X, r.Bottom()-1, '└', fg)
	s.put(r.Right()-1, r.Bottom()-1, '┘', fg)

	s.DrawHLine(r.X+1, r.Y, r.W-2, '─', fg)
	s.DrawHLine(r.X+1, r.Bottom()-1, r.W-2, '─', fg)
	s.DrawVLine(r.X, r.Y+1, r.H-2, '│', fg)
	s.DrawVLine(r.Right()-1, r.Y+1, r.H-2, '│', fg)
}

// DrawHLine draws a horizontal line from (x, y) with the given length.
func (s *Screen) DrawHLine(x, y, length int, r rune, fg Color) {
	for i := 0; i < length; i++ {
		s.put(x+i, y, r, fg)
	}
}

// DrawVLine draws a vertical line from (x, y) with the given length.
func (s *Screen) DrawVLine(x, y, length int, r rune, fg Color) {
	for i := 0; i < length; i++ {
		s.put(x, y+i, r, fg)
	}
}

func (s *Screen) put(x, y int, r rune, fg Color) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y][x].Rune = r
	s.cells[y][x].FG = fg
}

// String converts the screen buffer to plain text without colour.
// Each row is joined with newlines.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.width; x++ {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the runes of the specified row as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}
