//go:build ebiten

package gui

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/vovakirdan/wasm-arcade/internal/bridge"
	"github.com/vovakirdan/wasm-arcade/internal/core"
)

// ImageSurface is a bridge.Surface drawing onto an offscreen image the size
// of the canvas. The image persists across frames like a canvas does.
type ImageSurface struct {
	img    *ebiten.Image
	source *text.GoTextFaceSource
	faces  map[float64]*text.GoTextFace

	fill, stroke core.Color
	size         float64
	align        core.TextAlign
}

var _ bridge.Surface = (*ImageSurface)(nil)

// NewImageSurface creates a w x h surface. Text uses Go Regular.
func NewImageSurface(w, h int) (*ImageSurface, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("gui: failed to load font: %w", err)
	}
	return &ImageSurface{
		img:    ebiten.NewImage(w, h),
		source: src,
		faces:  make(map[float64]*text.GoTextFace),
		fill:   core.ColorBlack,
		stroke: core.ColorBlack,
		size:   10,
	}, nil
}

// Image returns the offscreen frame.
func (s *ImageSurface) Image() *ebiten.Image {
	return s.img
}

// Resize replaces the image when the canvas size changes.
func (s *ImageSurface) Resize(w, h int) {
	b := s.img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return
	}
	s.img.Deallocate()
	s.img = ebiten.NewImage(w, h)
}

func (s *ImageSurface) face(size float64) *text.GoTextFace {
	f, ok := s.faces[size]
	if !ok {
		f = &text.GoTextFace{Source: s.source, Size: size}
		s.faces[size] = f
	}
	return f
}

func (s *ImageSurface) SetFillColor(c core.Color)     { s.fill = c }
func (s *ImageSurface) SetStrokeColor(c core.Color)   { s.stroke = c }
func (s *ImageSurface) SetFont(sizePx float64)        { s.size = sizePx }
func (s *ImageSurface) SetTextAlign(a core.TextAlign) { s.align = a }

func (s *ImageSurface) FillRect(x, y, w, h float64) {
	vector.DrawFilledRect(s.img, float32(x), float32(y), float32(w), float32(h), s.fill.NRGBA(), false)
}

func (s *ImageSurface) StrokeRect(x, y, w, h float64) {
	vector.StrokeRect(s.img, float32(x), float32(y), float32(w), float32(h), 1, s.stroke.NRGBA(), false)
}

// FillText draws with the baseline at y.
func (s *ImageSurface) FillText(str string, x, y float64) {
	f := s.face(s.size)
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y-f.Metrics().HAscent)
	switch s.align {
	case core.AlignCenter:
		op.PrimaryAlign = text.AlignCenter
	case core.AlignRight:
		op.PrimaryAlign = text.AlignEnd
	default:
		op.PrimaryAlign = text.AlignStart
	}
	op.ColorScale.ScaleWithColor(s.fill.NRGBA())
	text.Draw(s.img, str, f, op)
}

func (s *ImageSurface) MeasureText(str string, sizePx float64) float64 {
	return text.Advance(str, s.face(sizePx))
}
