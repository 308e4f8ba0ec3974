package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wasm-arcade/internal/registry"
)

// MenuItem represents a selectable cartridge in the menu.
type MenuItem struct {
	ID    string
	Title string
	Kind  registry.Kind
}

// MenuModel is the Bubble Tea model for the cartridge picker.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	width       int
	height      int
	keys        KeyMap
	journalKey  key.Binding
	hasJournal  bool
	notice      string // shown under the list, e.g. a launch failure
	quitting    bool
	selected    *MenuItem // Set when user selects a cartridge
	openJournal bool      // True if user pressed Tab for the journal
}

// NewMenuModel creates a new menu model over the registered cartridges.
func NewMenuModel(width, height int, hasJournal bool) MenuModel {
	carts := registry.List()
	items := make([]MenuItem, 0, len(carts))
	for _, c := range carts {
		items = append(items, MenuItem{ID: c.ID, Title: c.Title, Kind: c.Kind})
	}

	return MenuModel{
		items:  items,
		width:  width,
		height: height,
		keys:   DefaultKeyMap(),
		journalKey: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "journal"),
		),
		hasJournal: hasJournal,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Accept):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case m.hasJournal && key.Matches(msg, m.journalKey):
		m.openJournal = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("  A R C A D E  ", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a cartridge", m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText("No cartridges found.", m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		kind := ""
		if item.Kind == registry.KindWasm {
			kind = " (wasm)"
		}

		line := fmt.Sprintf("%s%s%s", cursor, item.Title, kind)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n")
		notice := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(m.notice)
		b.WriteString(centerText(notice, m.width))
		b.WriteString("\n")
	}

	// Footer with controls
	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Q: Quit"
	if m.hasJournal {
		controls = "Up/Down: Navigate  |  Enter: Select  |  Tab: Journal  |  Q: Quit"
	}
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsJournal returns true if user requested the journal.
func (m MenuModel) WantsJournal() bool {
	return m.openJournal
}

// withNotice returns a fresh copy of the menu showing a message.
func (m MenuModel) withNotice(notice string) MenuModel {
	m.notice = notice
	m.selected = nil
	m.openJournal = false
	return m
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
