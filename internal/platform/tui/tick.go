// Package tui is the terminal host: it runs simulations inside Bubble Tea
// programs, locally or over SSH, painting the canvas onto a character grid.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is the frame callback; its time becomes the frame timestamp.
// Loop identifies the frame loop that scheduled it, so a tick still in
// flight when a game is left never reaches the next one.
type TickMsg struct {
	Loop uint64
	Time time.Time
}

var loopIDs atomic.Uint64

func nextLoopID() uint64 {
	return loopIDs.Add(1)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(loop uint64, tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Loop: loop, Time: t}
	})
}
