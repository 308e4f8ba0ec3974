package snake

import (
	"unicode/utf8"

	"github.com/vovakirdan/wasm-arcade/internal/bridge"
)

// Layout of the simulation's linear memory. Strings crossing the bridge
// are written here zero-terminated and passed by offset, the same way a
// compiled simulation hands the host pointers into its own memory.
const (
	scoreSlot     = 0
	scoreSlotSize = 256
	logSlot       = scoreSlot + scoreSlotSize
	logSlotSize   = 1024
	internBase    = logSlot + logSlotSize
	initialMemory = 2048
)

type memory struct {
	buf    []byte
	next   uint32
	intern map[string]uint32
}

func newMemory() *memory {
	return &memory{
		buf:    make([]byte, initialMemory),
		next:   internBase,
		intern: make(map[string]uint32),
	}
}

// View implements bridge.Memory. The buffer grows when interned strings
// overflow it, so callers must not keep a view between calls.
func (m *memory) View() bridge.LinearRegion {
	return m.buf
}

// put writes s into a fixed slot, truncated on a rune boundary to fit with
// its terminator.
func (m *memory) put(slot, size uint32, s string) uint32 {
	if cut := int(size) - 1; len(s) > cut {
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	n := copy(m.buf[slot:slot+size-1], s)
	m.buf[slot+uint32(n)] = 0
	return slot
}

// str returns the offset of a constant string, storing it on first use.
func (m *memory) str(s string) uint32 {
	if off, ok := m.intern[s]; ok {
		return off
	}
	need := int(m.next) + len(s) + 1
	if need > len(m.buf) {
		grown := make([]byte, max(need, 2*len(m.buf)))
		copy(grown, m.buf)
		m.buf = grown
	}
	off := m.next
	copy(m.buf[off:], s)
	m.buf[int(off)+len(s)] = 0
	m.next = uint32(need)
	m.intern[s] = off
	return off
}
