package bridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCStringReturnsBytesUpToTerminator(t *testing.T) {
	cases := []string{"", "a", "Score: 42", "héllo wörld", "snake 🐍"}
	for _, s := range cases {
		mem := &testMemory{buf: []byte{1, 2, 3}}
		off := mem.cstr(s)
		mem.raw('x', 'y', 0)

		got, err := ReadCString(mem.View(), off)
		require.NoError(t, err, "string %q", s)
		assert.Equal(t, s, got)
	}
}

func TestReadCStringDoesNotAliasRegion(t *testing.T) {
	mem := &testMemory{}
	off := mem.cstr("abc")
	got, err := ReadCString(mem.View(), off)
	require.NoError(t, err)
	mem.buf[off] = 'z'
	assert.Equal(t, "abc", got)
}

func TestReadCStringWithoutTerminator(t *testing.T) {
	mem := &testMemory{}
	mem.cstr("ok")
	off := mem.raw('n', 'o', ' ', 'e', 'n', 'd')

	_, err := ReadCString(mem.View(), off)
	var bounds *BoundsError
	require.True(t, errors.As(err, &bounds), "expected *BoundsError, got %v", err)
	assert.Equal(t, off, bounds.Offset)
	assert.Equal(t, len(mem.buf), bounds.Size)
	assert.Contains(t, err.Error(), "no terminator")
}

func TestReadCStringOffsetOutsideRegion(t *testing.T) {
	region := LinearRegion{'a', 0}
	for _, off := range []uint32{2, 100, ^uint32(0)} {
		_, err := ReadCString(region, off)
		var bounds *BoundsError
		require.True(t, errors.As(err, &bounds), "offset %d", off)
		assert.Contains(t, err.Error(), "outside")
	}
}

func TestReadCStringRejectsInvalidUTF8(t *testing.T) {
	mem := &testMemory{}
	off := mem.raw('o', 'k', 0xff, 'x', 0)

	_, err := ReadCString(mem.View(), off)
	var enc *EncodingError
	require.True(t, errors.As(err, &enc), "expected *EncodingError, got %v", err)
	assert.Equal(t, 2, enc.At)
}

func TestMemoryIsReacquiredPerView(t *testing.T) {
	mem := &testMemory{}
	off := mem.cstr("before")
	view := MemoryFunc(mem.View)

	// Growing the memory must not leave the next view stale.
	for i := 0; i < 64; i++ {
		mem.cstr("padding")
	}
	late := mem.cstr("after")

	got, err := ReadCString(view.View(), late)
	require.NoError(t, err)
	assert.Equal(t, "after", got)
	got, err = ReadCString(view.View(), off)
	require.NoError(t, err)
	assert.Equal(t, "before", got)
}

func TestReadU32(t *testing.T) {
	region := LinearRegion{0x40, 0x06, 0, 0, 0x84, 0x03, 0, 0}
	w, err := ReadU32(region, 0)
	require.NoError(t, err)
	h, err := ReadU32(region, 4)
	require.NoError(t, err)
	assert.Equal(t, uint32(1600), w)
	assert.Equal(t, uint32(900), h)

	_, err = ReadU32(region, 5)
	var bounds *BoundsError
	require.True(t, errors.As(err, &bounds))
	assert.Equal(t, 4, bounds.Want)
}
