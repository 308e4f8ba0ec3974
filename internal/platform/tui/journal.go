package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wasm-arcade/internal/registry"
	"github.com/vovakirdan/wasm-arcade/internal/storage"
)

// Journal layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show cartridge sidebar
	sidebarWidth       = 20  // Width of cartridge sidebar
	maxSessions        = 100 // Max sessions to load
)

// JournalKeyMap defines the key bindings for the journal browser.
type JournalKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Select  key.Binding
	Back    key.Binding
	Quit    key.Binding
	NextCar key.Binding
	PrevCar key.Binding
}

// ShortHelp implements help.KeyMap.
func (k JournalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextCar, k.Select, k.Back}
}

// FullHelp implements help.KeyMap.
func (k JournalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.NextCar, k.PrevCar, k.Select, k.Back, k.Quit},
	}
}

// DefaultJournalKeyMap returns the default journal key bindings.
func DefaultJournalKeyMap() JournalKeyMap {
	return JournalKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev cartridge"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next cartridge"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "diagnostics"),
		),
		NextCar: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next cartridge"),
		),
		PrevCar: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev cartridge"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// JournalModel browses recorded sessions per cartridge and the
// diagnostics of a chosen session.
type JournalModel struct {
	carts       []registry.CartridgeInfo
	cartCursor  int
	journal     *storage.Journal
	sessions    []storage.Session
	diagnostics []storage.DiagnosticEntry
	detail      *storage.Session // session whose diagnostics are shown
	loadErr     error
	table       table.Model
	help        help.Model
	keys        JournalKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show cartridge sidebar
}

// NewJournalModel creates a new journal browser.
func NewJournalModel(journal *storage.Journal, width, height int) JournalModel {
	h := help.New()
	h.ShowAll = false

	m := JournalModel{
		carts:       registry.List(),
		journal:     journal,
		keys:        DefaultJournalKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.table = m.createTable()
	m.loadSessions()

	return m
}

// createTable creates a table with the columns of the current mode.
func (m *JournalModel) createTable() table.Model {
	// Calculate available width for table
	tableWidth := m.width - 8 // Margins and border
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}

	var columns []table.Column
	if m.detail == nil {
		columns = []table.Column{
			{Title: "Session", Width: 8},
			{Title: "User", Width: 10},
			{Title: "Frames", Width: 8},
			{Title: "Result", Width: 10},
			{Title: "Started", Width: 14},
		}
	} else {
		columns = []table.Column{
			{Title: "Level", Width: 6},
			{Title: "Time", Width: 10},
			{Title: "Message", Width: max(20, tableWidth-20)},
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-8)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m *JournalModel) currentCartridge() string {
	if len(m.carts) == 0 {
		return ""
	}
	return m.carts[m.cartCursor].ID
}

// loadSessions loads the sessions of the current cartridge.
func (m *JournalModel) loadSessions() {
	m.sessions, m.loadErr = nil, nil
	if m.journal != nil && len(m.carts) > 0 {
		m.sessions, m.loadErr = m.journal.RecentSessions(m.currentCartridge(), maxSessions)
	}

	rows := make([]table.Row, len(m.sessions))
	for i, s := range m.sessions {
		result := "ok"
		switch {
		case s.EndedAt.IsZero():
			result = "open"
		case s.Halted:
			result = "halted"
		}
		user := s.User
		if user == "" {
			user = "local"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", s.ID),
			user,
			fmt.Sprintf("%d", s.Frames),
			result,
			s.StartedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// openDetail switches to the diagnostics of the selected session.
func (m *JournalModel) openDetail() {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.sessions) {
		return
	}
	s := m.sessions[i]
	m.detail = &s
	m.diagnostics, m.loadErr = m.journal.Diagnostics(s.ID)

	m.table = m.createTable()
	rows := make([]table.Row, len(m.diagnostics))
	for i, d := range m.diagnostics {
		rows[i] = table.Row{d.Level, d.CreatedAt.Local().Format("15:04:05"), d.Message}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *JournalModel) closeDetail() {
	m.detail = nil
	m.diagnostics = nil
	m.table = m.createTable()
	m.loadSessions()
}

func (m *JournalModel) moveCartridge(step int) {
	if len(m.carts) == 0 || m.detail != nil {
		return
	}
	m.cartCursor = (m.cartCursor + step + len(m.carts)) % len(m.carts)
	m.loadSessions()
}

// Init initializes the journal model.
func (m JournalModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the journal browser.
func (m JournalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			if m.detail != nil {
				m.closeDetail()
				return m, nil
			}
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if m.detail == nil {
				m.openDetail()
			}
			return m, nil

		case key.Matches(msg, m.keys.NextCar), key.Matches(msg, m.keys.Right):
			m.moveCartridge(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevCar), key.Matches(msg, m.keys.Left):
			m.moveCartridge(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.help.Width = msg.Width
		if m.detail != nil {
			// Rebuild the detail rows against the new column widths.
			s := *m.detail
			m.closeDetail()
			for i := range m.sessions {
				if m.sessions[i].ID == s.ID {
					m.table.SetCursor(i)
				}
			}
			m.openDetail()
			return m, nil
		}
		m.table = m.createTable()
		m.loadSessions()
		return m, nil
	}

	// Pass other messages to table for scrolling
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the journal browser.
func (m JournalModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "JOURNAL"
	switch {
	case m.detail != nil:
		title = fmt.Sprintf("JOURNAL - %s session #%d", m.detail.Cartridge, m.detail.ID)
	case len(m.carts) > 0:
		title = fmt.Sprintf("JOURNAL - %s", m.carts[m.cartCursor].Title)
	}

	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tableRendered := tableStyle.Render(m.renderTableContent())

	if m.showSidebar && m.detail == nil {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", tableRendered))
	} else {
		b.WriteString(tableRendered)
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderSidebar renders the cartridge list.
func (m JournalModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Cartridges\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, c := range m.carts {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cartCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := c.Title
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	return sidebarStyle.Render(sidebar.String())
}

// renderTableContent renders the table or an empty message.
func (m JournalModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.journal == nil:
		return emptyStyle.Render("The journal is disabled.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not read the journal:\n" + m.loadErr.Error())
	case m.detail != nil && len(m.diagnostics) == 0:
		return emptyStyle.Render("This session reported nothing.")
	case m.detail == nil && len(m.sessions) == 0:
		return emptyStyle.Render("No sessions recorded yet.\nPlay a cartridge to start one!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m JournalModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m JournalModel) IsQuitting() bool {
	return m.quitting
}
