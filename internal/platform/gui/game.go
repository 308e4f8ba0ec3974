//go:build ebiten

package gui

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/vovakirdan/wasm-arcade/internal/core"
	"github.com/vovakirdan/wasm-arcade/internal/session"
)

// keyTable maps physical keys to simulation key codes.
var keyTable = map[ebiten.Key]core.KeyCode{
	ebiten.KeyArrowLeft:  core.KeyLeft,
	ebiten.KeyA:          core.KeyLeft,
	ebiten.KeyArrowRight: core.KeyRight,
	ebiten.KeyD:          core.KeyRight,
	ebiten.KeyArrowUp:    core.KeyUp,
	ebiten.KeyW:          core.KeyUp,
	ebiten.KeyArrowDown:  core.KeyDown,
	ebiten.KeyS:          core.KeyDown,
	ebiten.KeyEnter:      core.KeyAccept,
	ebiten.KeySpace:      core.KeyAccept,
}

// game is the ebiten.Game around one session. Update only collects input;
// Draw is the frame callback.
type game struct {
	ctx     context.Context
	sess    *session.Session
	surface *ImageSurface
	start   time.Time
	box     letterbox

	touch    ebiten.TouchID
	touching bool
	mouse    bool
	touchIDs []ebiten.TouchID
	released []ebiten.Key
}

func (g *game) stamp() float64 {
	return float64(time.Since(g.start).Microseconds()) / 1000
}

// Update implements ebiten.Game.
func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	input := g.sess.Bridge.Input()

	g.released = g.released[:0]
	for k, code := range keyTable {
		if inpututil.IsKeyJustPressed(k) {
			input.KeyDown(code)
		}
		if inpututil.IsKeyJustReleased(k) {
			g.released = append(g.released, k)
		}
	}
	for _, code := range releasedCodes(keyTable, g.released, ebiten.IsKeyPressed) {
		input.KeyUp(code)
	}

	// Mouse contact
	mx, my := ebiten.CursorPosition()
	cx, cy := g.box.toCanvas(mx, my)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.mouse = true
		input.PointerDown(cx, cy, g.stamp())
	case g.mouse && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.mouse = false
		input.PointerMove(cx, cy)
		input.PointerUp(g.stamp())
	case g.mouse:
		input.PointerMove(cx, cy)
	}

	// First touch only; further fingers are ignored while it lasts.
	if !g.touching {
		g.touchIDs = inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0])
		if len(g.touchIDs) > 0 {
			g.touch, g.touching = g.touchIDs[0], true
			tx, ty := ebiten.TouchPosition(g.touch)
			x, y := g.box.toCanvas(tx, ty)
			input.PointerDown(x, y, g.stamp())
		}
	} else if inpututil.IsTouchJustReleased(g.touch) {
		g.touching = false
		tx, ty := inpututil.TouchPositionInPreviousTick(g.touch)
		x, y := g.box.toCanvas(tx, ty)
		input.PointerMove(x, y)
		input.PointerUp(g.stamp())
	} else {
		tx, ty := ebiten.TouchPosition(g.touch)
		x, y := g.box.toCanvas(tx, ty)
		input.PointerMove(x, y)
	}
	return nil
}

// Draw implements ebiten.Game: it runs one frame and shows the canvas.
func (g *game) Draw(screen *ebiten.Image) {
	g.sess.Bridge.Tick(g.ctx, g.stamp())

	b := screen.Bounds()
	w, h := g.sess.Bridge.CanvasSize()
	g.box = fit(int(w), int(h), b.Dx(), b.Dy())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(g.box.scale, g.box.scale)
	op.GeoM.Translate(g.box.offX, g.box.offY)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.surface.Image(), op)

	if g.sess.Bridge.Halted() {
		g.drawStatus(screen)
	}
}

func (g *game) drawStatus(screen *ebiten.Image) {
	msg := "halted"
	if e, ok := g.sess.LastProblem(); ok {
		msg = "halted: " + e.Message
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.ColorScale.ScaleWithColor(core.RGB(255, 80, 80).NRGBA())
	text.Draw(screen, msg+"  (esc: quit)", g.surface.face(16), op)
}

// Layout implements ebiten.Game.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Run opens a window and plays one cartridge until it is closed.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Session.Config
	surface, err := NewImageSurface(cfg.CanvasW, cfg.CanvasH)
	if err != nil {
		return err
	}
	opts.Session.Surface = surface

	sess, err := session.Launch(ctx, opts.Session)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	w, h := sess.Bridge.CanvasSize()
	surface.Resize(int(w), int(h))

	if opts.Session.Logger != nil && cfg.Font != "" {
		opts.Session.Logger.Debug("font family is fixed per process", "requested", cfg.Font, "using", "Go Regular")
	}

	zoom := opts.Zoom
	if zoom <= 0 {
		zoom = 0.5
	}
	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("arcade: %s", opts.Session.Cartridge)
	}
	ebiten.SetWindowSize(int(float64(w)*zoom), int(float64(h)*zoom))
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TickRate)

	g := &game{ctx: ctx, sess: sess, surface: surface, start: time.Now()}
	sess.Bridge.Start(nil)

	// RunGame returns nil when Update returns ebiten.Termination.
	return ebiten.RunGame(g)
}
