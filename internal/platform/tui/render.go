package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wasm-arcade/internal/core"
)

type cellStyle struct{ fg, bg core.Color }

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colours to minimize ANSI escape
// sequences. A nil renderer uses lipgloss's default one; SSH sessions pass
// their own so colour support follows the client terminal.
func RenderScreen(r *lipgloss.Renderer, s *core.Screen) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	styles := make(map[cellStyle]lipgloss.Style)
	styleFor := func(k cellStyle) lipgloss.Style {
		st, ok := styles[k]
		if !ok {
			st = r.NewStyle().
				Foreground(lipgloss.Color(k.fg.ToDrawableOpaque())).
				Background(lipgloss.Color(k.bg.ToDrawableOpaque()))
			styles[k] = st
		}
		return st
	}

	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same colours
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			start := cellStyle{cell.FG, cell.BG}

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if (cellStyle{cell.FG, cell.BG}) != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(styleFor(start).Render(run.String()))
		}
	}
	return sb.String()
}
