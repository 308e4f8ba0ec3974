package bridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/wasm-arcade/internal/core"
)

func newTestRender() (*RenderBridge, *recordingSurface, *RecentSink) {
	surface := &recordingSurface{}
	recent := NewRecentSink(8)
	return NewRenderBridge(surface, NewDiagnostics(recent)), surface, recent
}

func TestRenderRects(t *testing.T) {
	r, surface, _ := newTestRender()
	r.FillRect(0, 0, 1600, 900, core.Color(0xFF181818))
	r.StrokeRect(10, 20, 30, 40, core.Color(0xFF31A6FF))

	assert.Equal(t, []string{
		"fill #181818ff",
		"fillRect 0 0 1600 900",
		"stroke #ffa631ff",
		"strokeRect 10 20 30 40",
	}, surface.ops)
}

func TestRenderDrawTextSetsPaintStateEveryCall(t *testing.T) {
	r, surface, _ := newTestRender()
	mem := &testMemory{}
	ref := mem.cstr("Score: 3")

	require.NoError(t, r.DrawText(mem, 100, 50, ref, 48, core.ColorWhite, uint32(core.AlignCenter)))
	require.NoError(t, r.DrawText(mem, 100, 50, ref, 48, core.ColorWhite, uint32(core.AlignCenter)))

	want := []string{"fill #ffffffff", "font 48", "align center", `text "Score: 3" 100 50`}
	assert.Equal(t, append(append([]string{}, want...), want...), surface.ops)
}

func TestRenderLegacyFillTextIsLeftAligned(t *testing.T) {
	r, surface, _ := newTestRender()
	mem := &testMemory{}
	ref := mem.cstr("Game Over")

	require.NoError(t, r.FillText(mem, 5, 6, ref, 32, core.ColorRed))
	assert.Equal(t, core.AlignLeft, surface.align)
	assert.Equal(t, 32.0, surface.size)
	assert.Equal(t, core.ColorRed, surface.fill)
}

func TestRenderUnknownAlignmentFallsBackToLeft(t *testing.T) {
	r, surface, recent := newTestRender()
	mem := &testMemory{}
	ref := mem.cstr("x")

	require.NoError(t, r.DrawText(mem, 0, 0, ref, 10, core.ColorWhite, 7))
	assert.Equal(t, core.AlignLeft, surface.align)
	entry, ok := recent.Last(LevelError)
	require.True(t, ok)
	assert.Contains(t, entry.Message, "unknown text alignment 7")
}

func TestRenderDecodeFailureSkipsSurface(t *testing.T) {
	r, surface, recent := newTestRender()
	mem := &testMemory{}
	ref := mem.raw('n', 'o', 'p', 'e')

	err := r.DrawText(mem, 0, 0, ref, 10, core.ColorWhite, 0)
	var callErr *CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, "drawText", callErr.Call)
	var bounds *BoundsError
	assert.True(t, errors.As(err, &bounds))
	assert.Empty(t, surface.ops)

	entry, ok := recent.Last(LevelError)
	require.True(t, ok)
	assert.Contains(t, entry.Message, "drawText(offset=0)")
}

func TestRenderMeasureTextIsPure(t *testing.T) {
	r, surface, _ := newTestRender()
	mem := &testMemory{}
	ref := mem.cstr("abcd")

	w, err := r.MeasureText(mem, ref, 20)
	require.NoError(t, err)
	assert.Equal(t, 40.0, w)
	assert.Empty(t, surface.ops)

	bad := mem.raw(0xc3)
	w, err = r.MeasureText(mem, bad, 20)
	assert.Error(t, err)
	assert.Zero(t, w)
}
