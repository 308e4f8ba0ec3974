// Package snake is a Go-native simulation of the classic snake game. It
// talks to the host only through bridge.Imports, passing strings as
// offsets into its own linear memory, so it exercises the bridge exactly
// like a compiled WebAssembly cartridge would.
package snake

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"runtime"
	"time"

	"github.com/vovakirdan/wasm-arcade/internal/bridge"
	"github.com/vovakirdan/wasm-arcade/internal/core"
	"github.com/vovakirdan/wasm-arcade/internal/registry"
)

const (
	Width    = 1600
	Height   = 900
	CellSize = 100
	Cols     = Width / CellSize
	Rows     = Height / CellSize

	initSize     = 3
	stepInterval = 0.2 // seconds per move
	dirQueueCap  = 3

	scorePadding  = 100
	scoreFontSize = 48
	titleFontSize = 96
	hintFontSize  = 32
)

const (
	backgroundColor core.Color = 0xFF181818
	cell1Color                 = backgroundColor
	cell2Color      core.Color = 0xFF183018
	bodyColor       core.Color = 0xFF189018
	headColor       core.Color = 0xFF30C030
	eggColor        core.Color = 0xFF31A6FF
	overlayColor    core.Color = 0xA0000000
)

// Direction represents the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirUp
	DirLeft
	DirDown
)

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Point is a board cell.
type Point struct {
	X, Y int
}

// State is the game phase.
type State int

const (
	StateGameplay State = iota
	StateGameOver
)

// Game implements bridge.Simulation.
type Game struct {
	imports bridge.Imports
	mem     *memory
	rng     *rand.Rand

	state    State
	snake    []Point // head at index 0
	egg      Point
	dir      Direction
	nextDirs []Direction
	cooldown float64
	score    int
	steps    uint64

	// Polled key state from the previous update, for press detection.
	held       [4]bool
	acceptHeld bool
}

func init() {
	registry.Register("snake", "Snake", func(imports bridge.Imports, seed int64) bridge.Simulation {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return New(imports, seed)
	})
}

// New creates a snake simulation calling back into imports.
func New(imports bridge.Imports, seed int64) *Game {
	return &Game{
		imports: imports,
		mem:     newMemory(),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Info implements bridge.Simulation: the board dictates the canvas.
func (g *Game) Info(context.Context) (uint32, uint32, bool, error) {
	return Width, Height, true, nil
}

// Init implements bridge.Simulation. The canvas size is fixed by Info.
func (g *Game) Init(context.Context, uint32, uint32) error {
	if err := g.restart(); err != nil {
		return err
	}
	g.logf("Game initialized")
	return nil
}

func (g *Game) restart() error {
	g.state = StateGameplay
	g.snake = g.snake[:0]
	for i := initSize - 1; i >= 0; i-- {
		g.snake = append(g.snake, Point{X: i, Y: Rows / 2})
	}
	g.dir = DirRight
	g.nextDirs = g.nextDirs[:0]
	g.cooldown = 0
	g.score = 0
	g.updateScore()
	return g.randomEgg()
}

func (g *Game) updateScore() {
	g.mem.put(scoreSlot, scoreSlotSize, fmt.Sprintf("Score: %d", g.score))
}

// randomEgg places the egg on a free cell. A full board ends the game.
func (g *Game) randomEgg() error {
	free := make([]Point, 0, Cols*Rows)
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			p := Point{X: x, Y: y}
			if !g.isSnakeAt(p) {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		g.egg = Point{X: -1, Y: -1}
		g.state = StateGameOver
		g.logf("Board full, final score %d", g.score)
		return nil
	}
	g.egg = free[g.rng.Intn(len(free))]
	return nil
}

func (g *Game) isSnakeAt(p Point) bool {
	for _, seg := range g.snake {
		if seg == p {
			return true
		}
	}
	return false
}

// KeyEvent implements bridge.Simulation.
func (g *Game) KeyEvent(_ context.Context, code core.KeyCode) error {
	return g.press(code)
}

func (g *Game) press(code core.KeyCode) error {
	switch g.state {
	case StateGameplay:
		switch code {
		case core.KeyRight:
			g.queueDir(DirRight)
		case core.KeyUp:
			g.queueDir(DirUp)
		case core.KeyLeft:
			g.queueDir(DirLeft)
		case core.KeyDown:
			g.queueDir(DirDown)
		}
	case StateGameOver:
		if code == core.KeyAccept {
			return g.restart()
		}
	}
	return nil
}

// queueDir appends to the direction queue, dropping the oldest entry
// when full. Repeating the last queued direction is a no-op.
func (g *Game) queueDir(d Direction) {
	if n := len(g.nextDirs); n > 0 && g.nextDirs[n-1] == d {
		return
	}
	if len(g.nextDirs) == dirQueueCap {
		g.nextDirs = append(g.nextDirs[:0], g.nextDirs[1:]...)
	}
	g.nextDirs = append(g.nextDirs, d)
}

// pollKeys turns newly held keys into presses. Under edge input nothing
// is ever held and this does nothing.
func (g *Game) pollKeys() error {
	keys := [4]core.KeyCode{core.KeyRight, core.KeyUp, core.KeyLeft, core.KeyDown}
	for i, code := range keys {
		down := g.imports.IsKeyDown(uint32(code))
		if down && !g.held[i] {
			if err := g.press(code); err != nil {
				return err
			}
		}
		g.held[i] = down
	}
	accept := g.imports.IsKeyDown(uint32(core.KeyAccept))
	if accept && !g.acceptHeld {
		if err := g.press(core.KeyAccept); err != nil {
			return err
		}
	}
	g.acceptHeld = accept
	return nil
}

// Update implements bridge.Simulation.
func (g *Game) Update(_ context.Context, dt float64) error {
	if err := g.pollKeys(); err != nil {
		return err
	}
	if g.state != StateGameplay {
		return nil
	}

	g.cooldown -= dt
	if g.cooldown > 0 {
		return nil
	}

	if len(g.nextDirs) > 0 {
		next := g.nextDirs[0]
		g.nextDirs = append(g.nextDirs[:0], g.nextDirs[1:]...)
		if next != g.dir.Opposite() {
			g.dir = next
		}
	}

	head, err := g.stepCell(g.snake[0], g.dir)
	if err != nil {
		return err
	}

	switch {
	case head == g.egg:
		if err := g.assert(len(g.snake) < Cols*Rows, "snake overflow"); err != nil {
			return err
		}
		g.snake = append([]Point{head}, g.snake...)
		g.score++
		g.updateScore()
		if err := g.randomEgg(); err != nil {
			return err
		}
	case g.isSnakeAt(head):
		g.state = StateGameOver
		g.logf("Game over, score %d", g.score)
		return nil
	default:
		copy(g.snake[1:], g.snake[:len(g.snake)-1])
		g.snake[0] = head
	}

	g.steps++
	g.cooldown = stepInterval
	return nil
}

func (g *Game) stepCell(p Point, d Direction) (Point, error) {
	switch d {
	case DirRight:
		p.X++
	case DirUp:
		p.Y--
	case DirLeft:
		p.X--
	case DirDown:
		p.Y++
	default:
		return p, g.assert(false, "unreachable")
	}
	p.X = emod(p.X, Cols)
	p.Y = emod(p.Y, Rows)
	return p, nil
}

func emod(a, b int) int {
	return (a%b + b) % b
}

// Render implements bridge.Simulation.
func (g *Game) Render(context.Context) error {
	im := g.imports
	im.FillRect(0, 0, Width, Height, uint32(backgroundColor))
	for col := 0; col < Cols; col++ {
		for row := 0; row < Rows; row++ {
			color := cell1Color
			if (row+col)%2 != 0 {
				color = cell2Color
			}
			im.FillRect(float64(col*CellSize), float64(row*CellSize), CellSize, CellSize, uint32(color))
		}
	}

	if g.egg.X >= 0 {
		im.FillRect(float64(g.egg.X*CellSize), float64(g.egg.Y*CellSize), CellSize, CellSize, uint32(eggColor))
	}
	for i, seg := range g.snake {
		x, y := float64(seg.X*CellSize), float64(seg.Y*CellSize)
		im.FillRect(x, y, CellSize, CellSize, uint32(bodyColor))
		if i == 0 {
			im.StrokeRect(x, y, CellSize, CellSize, uint32(headColor))
		}
	}

	im.DrawText(g.mem, scorePadding, scorePadding, scoreSlot, scoreFontSize,
		uint32(core.ColorWhite), uint32(core.AlignLeft))

	if g.state == StateGameOver {
		g.renderGameOver()
	}
	return nil
}

func (g *Game) renderGameOver() {
	im := g.imports
	im.FillRect(0, 0, Width, Height, uint32(overlayColor))
	im.DrawText(g.mem, Width/2, Height/2, g.mem.str("Game Over"), titleFontSize,
		uint32(core.ColorWhite), uint32(core.AlignCenter))

	hint := g.mem.str("Press Enter to restart")
	w := im.MeasureText(g.mem, hint, hintFontSize)
	const pad = 16
	y := float64(Height/2 + titleFontSize)
	im.StrokeRect(Width/2-w/2-pad, y-hintFontSize-pad/2, w+2*pad, hintFontSize+pad, uint32(core.ColorWhite))
	im.DrawText(g.mem, Width/2, y, hint, hintFontSize, uint32(core.ColorWhite), uint32(core.AlignCenter))
}

// Close implements bridge.Simulation.
func (g *Game) Close(context.Context) error {
	return nil
}

func (g *Game) logf(format string, args ...any) {
	ref := g.mem.put(logSlot, logSlotSize, fmt.Sprintf(format, args...))
	g.imports.Log(g.mem, ref)
}

// assert reports a failed condition through the panic import, naming the
// caller's file and line.
func (g *Game) assert(cond bool, msg string) error {
	if cond {
		return nil
	}
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "snake", 0
	}
	return g.imports.Panic(g.mem, g.mem.str(filepath.Base(file)), uint32(line), g.mem.str(msg))
}

var _ bridge.Simulation = (*Game)(nil)
