package bridge

import (
	"context"
	"fmt"
	"strings"

	"github.com/vovakirdan/wasm-arcade/internal/core"
)

// testMemory is a growable linear region for tests.
type testMemory struct {
	buf []byte
}

func (m *testMemory) View() LinearRegion { return m.buf }

// cstr appends s with a terminator and returns its offset.
func (m *testMemory) cstr(s string) uint32 {
	off := uint32(len(m.buf))
	m.buf = append(m.buf, s...)
	m.buf = append(m.buf, 0)
	return off
}

// raw appends bytes without a terminator and returns their offset.
func (m *testMemory) raw(b ...byte) uint32 {
	off := uint32(len(m.buf))
	m.buf = append(m.buf, b...)
	return off
}

// recordingSurface logs every surface call as a short string.
type recordingSurface struct {
	ops   []string
	fill  core.Color
	align core.TextAlign
	size  float64
}

func (s *recordingSurface) SetFillColor(c core.Color) {
	s.fill = c
	s.ops = append(s.ops, "fill "+c.ToDrawable())
}

func (s *recordingSurface) SetStrokeColor(c core.Color) {
	s.ops = append(s.ops, "stroke "+c.ToDrawable())
}

func (s *recordingSurface) SetFont(sizePx float64) {
	s.size = sizePx
	s.ops = append(s.ops, fmt.Sprintf("font %g", sizePx))
}

func (s *recordingSurface) SetTextAlign(a core.TextAlign) {
	s.align = a
	s.ops = append(s.ops, "align "+a.String())
}

func (s *recordingSurface) FillRect(x, y, w, h float64) {
	s.ops = append(s.ops, fmt.Sprintf("fillRect %g %g %g %g", x, y, w, h))
}

func (s *recordingSurface) StrokeRect(x, y, w, h float64) {
	s.ops = append(s.ops, fmt.Sprintf("strokeRect %g %g %g %g", x, y, w, h))
}

func (s *recordingSurface) FillText(text string, x, y float64) {
	s.ops = append(s.ops, fmt.Sprintf("text %q %g %g", text, x, y))
}

// MeasureText counts runes at half the size each.
func (s *recordingSurface) MeasureText(text string, sizePx float64) float64 {
	return float64(len([]rune(text))) * sizePx / 2
}

// fakeSim records entry-point calls and runs optional hooks.
type fakeSim struct {
	calls []string

	width, height uint32
	hasInfo       bool

	onInit   func() error
	onUpdate func(delta float64) error
	onRender func() error
	onKey    func(code core.KeyCode) error
	closed   bool
}

func (f *fakeSim) Init(_ context.Context, w, h uint32) error {
	f.calls = append(f.calls, fmt.Sprintf("init %dx%d", w, h))
	if f.onInit != nil {
		return f.onInit()
	}
	return nil
}

func (f *fakeSim) Update(_ context.Context, delta float64) error {
	f.calls = append(f.calls, "update")
	if f.onUpdate != nil {
		return f.onUpdate(delta)
	}
	return nil
}

func (f *fakeSim) Render(context.Context) error {
	f.calls = append(f.calls, "render")
	if f.onRender != nil {
		return f.onRender()
	}
	return nil
}

func (f *fakeSim) KeyEvent(_ context.Context, code core.KeyCode) error {
	f.calls = append(f.calls, "key "+code.String())
	if f.onKey != nil {
		return f.onKey(code)
	}
	return nil
}

func (f *fakeSim) Info(context.Context) (uint32, uint32, bool, error) {
	return f.width, f.height, f.hasInfo, nil
}

func (f *fakeSim) Close(context.Context) error {
	f.closed = true
	return nil
}

func (f *fakeSim) joined() string {
	return strings.Join(f.calls, ",")
}
