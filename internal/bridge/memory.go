package bridge

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"
)

// LinearRegion is a view over the simulation's addressable memory.
// A region is only valid for the boundary call that acquired it: the
// simulation may grow its memory between calls, which invalidates any
// earlier view. Never store one.
type LinearRegion []byte

// Memory hands out the current region. Implementations must re-acquire the
// underlying buffer on every View call.
type Memory interface {
	View() LinearRegion
}

// MemoryFunc adapts a plain function to Memory.
type MemoryFunc func() LinearRegion

// View calls f.
func (f MemoryFunc) View() LinearRegion { return f() }

// ReadCString decodes the zero-terminated UTF-8 string that starts at offset.
// Reaching the end of the region without a terminator is a *BoundsError;
// invalid UTF-8 is an *EncodingError. The result never aliases the region.
func ReadCString(region LinearRegion, offset uint32) (string, error) {
	if int64(offset) >= int64(len(region)) {
		return "", &BoundsError{Offset: offset, Size: len(region)}
	}
	n := bytes.IndexByte(region[offset:], 0)
	if n < 0 {
		return "", &BoundsError{Offset: offset, Size: len(region)}
	}
	raw := region[offset : int(offset)+n]
	if !utf8.Valid(raw) {
		return "", &EncodingError{Offset: offset, At: firstInvalid(raw)}
	}
	return string(raw), nil
}

func firstInvalid(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}

// ReadU32 decodes a little-endian u32 at offset.
func ReadU32(region LinearRegion, offset uint32) (uint32, error) {
	if int64(offset)+4 > int64(len(region)) {
		return 0, &BoundsError{Offset: offset, Size: len(region), Want: 4}
	}
	return binary.LittleEndian.Uint32(region[offset:]), nil
}
