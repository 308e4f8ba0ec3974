package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/wasm-arcade/internal/core"
)

// Rows of the mode menu.
const (
	modeRowInput = iota
	modeRowStep
	modeRowStart
	modeRows
)

// ModeModel lets the user pick the input model and step mode before a
// cartridge starts.
type ModeModel struct {
	title    string
	cursor   int
	width    int
	height   int
	keys     KeyMap
	input    core.InputModel
	step     core.StepMode
	choosing bool
	quitting bool
	back     bool
}

// NewModeModel creates a mode menu preset to cfg's modes.
func NewModeModel(title string, cfg core.RuntimeConfig, width, height int) ModeModel {
	return ModeModel{
		title:    title,
		cursor:   modeRowStart,
		width:    width,
		height:   height,
		keys:     DefaultKeyMap(),
		input:    cfg.Input,
		step:     cfg.Step,
		choosing: true,
	}
}

// Init initializes the model.
func (m ModeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ModeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m ModeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.back = true
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < modeRows-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		m.toggle()
	case key.Matches(msg, m.keys.Accept):
		if m.cursor == modeRowStart {
			m.choosing = false
			return m, tea.Quit
		}
		m.toggle()
	}
	return m, nil
}

func (m *ModeModel) toggle() {
	switch m.cursor {
	case modeRowInput:
		if m.input == core.InputPolled {
			m.input = core.InputEdge
		} else {
			m.input = core.InputPolled
		}
	case modeRowStep:
		if m.step == core.StepVariable {
			m.step = core.StepFixed
		} else {
			m.step = core.StepVariable
		}
	}
}

// View renders the mode selection.
func (m ModeModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.title, m.width))
	b.WriteString("\n\n")

	rows := []string{
		fmt.Sprintf("Input: < %s >", m.input),
		fmt.Sprintf("Step:  < %s >", m.step),
		"Start",
	}
	for i, row := range rows {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+row, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Left/Right: Change  |  Enter: Start  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Apply returns cfg with the chosen modes.
func (m ModeModel) Apply(cfg core.RuntimeConfig) core.RuntimeConfig {
	cfg.Input = m.input
	cfg.Step = m.step
	return cfg
}

// Chosen returns true once the user pressed Start.
func (m ModeModel) Chosen() bool {
	return !m.choosing
}

// IsQuitting returns true if user wants to quit.
func (m ModeModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m ModeModel) WantsBack() bool {
	return m.back
}
