package core

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a packed 32-bit colour as it crosses the simulation boundary.
// Channel n occupies bits 8n..8n+7: red in the lowest byte, alpha in the highest.
type Color uint32

// Common colours used by the host itself (overlays, menus).
const (
	ColorBlack Color = 0xFF000000
	ColorWhite Color = 0xFFFFFFFF
	ColorRed   Color = 0xFF0000FF
)

// RGBA packs four channels into a Color.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24)
}

// RGB packs three channels into a fully opaque Color.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 0xFF)
}

// Channel returns channel n (0 = red, 1 = green, 2 = blue, 3 = alpha).
func (c Color) Channel(n int) uint8 {
	return uint8(uint32(c) >> (8 * uint(n)))
}

// Channels returns the red, green, blue and alpha channels.
func (c Color) Channels() (r, g, b, a uint8) {
	return c.Channel(0), c.Channel(1), c.Channel(2), c.Channel(3)
}

// ToDrawable formats the colour as "#rrggbbaa".
func (c Color) ToDrawable() string {
	r, g, b, a := c.Channels()
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

// ToDrawableOpaque formats the colour as "#rrggbb" for hosts that reject
// the 8-digit form. Alpha is dropped.
func (c Color) ToDrawableOpaque() string {
	r, g, b, _ := c.Channels()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// NRGBA converts to the image/color representation (non-premultiplied).
func (c Color) NRGBA() color.NRGBA {
	r, g, b, a := c.Channels()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// ParseDrawable parses "#rrggbbaa" or "#rrggbb" (alpha 0xFF) back into a Color.
func ParseDrawable(s string) (Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return 0, fmt.Errorf("core: malformed drawable colour %q", s)
	}
	var ch [4]uint8
	ch[3] = 0xFF
	for i := 0; i < len(hex)/2; i++ {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("core: malformed drawable colour %q: %w", s, err)
		}
		ch[i] = uint8(v)
	}
	return RGBA(ch[0], ch[1], ch[2], ch[3]), nil
}

// Over composites c onto an opaque dst and returns an opaque colour.
func (c Color) Over(dst Color) Color {
	a := uint32(c.Channel(3))
	if a == 0xFF {
		return c
	}
	mix := func(n int) uint8 {
		return uint8((uint32(c.Channel(n))*a + uint32(dst.Channel(n))*(0xFF-a) + 0x7F) / 0xFF)
	}
	return RGB(mix(0), mix(1), mix(2))
}
