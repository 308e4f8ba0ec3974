package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wasm-arcade/internal/core"
	"github.com/vovakirdan/wasm-arcade/internal/session"
	"github.com/vovakirdan/wasm-arcade/internal/storage"
)

// AppOptions configures the menu-driven arcade flow.
type AppOptions struct {
	Config  core.RuntimeConfig
	Logger  *log.Logger
	Journal *storage.Journal
	User    string

	Renderer      *lipgloss.Renderer
	ScreenshotDir string
}

// liveGame remembers the session running inside a program so it can be
// closed once the program has exited, however it exited.
type liveGame struct {
	mu   sync.Mutex
	game *GameModel
}

func (l *liveGame) set(g *GameModel) {
	l.mu.Lock()
	l.game = g
	l.mu.Unlock()
}

// close ends the running session, if any.
func (l *liveGame) close() error {
	l.mu.Lock()
	g := l.game
	l.game = nil
	l.mu.Unlock()
	if g == nil {
		return nil
	}
	return g.Close()
}

// AppModel manages the full arcade flow: menu -> game -> menu, with the
// journal browser one key away. Each game gets its own session.
type AppModel struct {
	ctx     context.Context
	opts    AppOptions
	width   int
	height  int
	live    *liveGame
	menu    MenuModel
	modes   *ModeModel
	pending MenuItem // cartridge waiting on the mode menu
	journal *JournalModel
	game    *GameModel
	quit    bool
}

// NewAppModel creates the arcade model at the menu.
func NewAppModel(ctx context.Context, opts AppOptions) AppModel {
	return AppModel{
		ctx:    ctx,
		opts:   opts,
		width:  opts.Config.ScreenW,
		height: opts.Config.ScreenH,
		live:   &liveGame{},
		menu:   NewMenuModel(opts.Config.ScreenW, opts.Config.ScreenH, opts.Journal != nil),
	}
}

// Init initializes the arcade.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the current screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch {
	case m.game != nil:
		return m.updateGame(msg)
	case m.modes != nil:
		return m.updateModes(msg)
	case m.journal != nil:
		return m.updateJournal(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quit = true
		return m, tea.Quit
	}

	if m.menu.WantsJournal() {
		jm := NewJournalModel(m.opts.Journal, m.width, m.height)
		m.journal = &jm
		m.menu = m.menu.withNotice("")
		return m, jm.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		mm := NewModeModel(strings.ToUpper(selected.Title), m.opts.Config, m.width, m.height)
		m.modes = &mm
		m.pending = *selected
		m.menu = m.menu.withNotice("")
		return m, mm.Init()
	}

	return m, cmd
}

// updateModes handles the mode menu shown before a cartridge starts.
func (m AppModel) updateModes(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.modes.Update(msg)
	if mm, ok := newModel.(ModeModel); ok {
		m.modes = &mm
	}

	switch {
	case m.modes.IsQuitting():
		m.quit = true
		return m, tea.Quit
	case m.modes.WantsBack():
		m.modes = nil
		return m, nil
	case !m.modes.Chosen():
		return m, cmd
	}

	cfg := m.modes.Apply(m.opts.Config)
	cfg.ScreenW, cfg.ScreenH = m.width, m.height
	m.modes = nil

	game, err := OpenGame(m.ctx, GameOptions{
		Session: session.Options{
			Cartridge: m.pending.ID,
			Config:    cfg,
			Logger:    m.opts.Logger,
			Journal:   m.opts.Journal,
			User:      m.opts.User,
		},
		Cols:          m.width,
		Rows:          m.height,
		Renderer:      m.opts.Renderer,
		ScreenshotDir: m.opts.ScreenshotDir,
	})
	if err != nil {
		m.menu = m.menu.withNotice(fmt.Sprintf("cannot start %s: %v", m.pending.Title, err))
		return m, nil
	}
	m.game = &game
	m.live.set(m.game)
	return m, m.game.Init()
}

// updateGame handles updates when in game mode.
func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = &gameModel
		m.live.set(m.game)
	}

	if m.game.BackToMenu() {
		if err := m.live.close(); err != nil && m.opts.Logger != nil {
			m.opts.Logger.Warn("closing session", "error", err)
		}
		m.game = nil
		m.menu = NewMenuModel(m.width, m.height, m.opts.Journal != nil)
		return m, m.menu.Init()
	}

	if m.game.IsQuitting() {
		m.quit = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateJournal handles updates when browsing the journal.
func (m AppModel) updateJournal(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.journal.Update(msg)
	if jm, ok := newModel.(JournalModel); ok {
		m.journal = &jm
	}

	if m.journal.IsQuitting() {
		m.quit = true
		return m, tea.Quit
	}
	if m.journal.IsGoingBack() {
		m.journal = nil
		return m, nil
	}
	return m, cmd
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.quit {
		return ""
	}
	switch {
	case m.game != nil:
		return m.game.View()
	case m.modes != nil:
		return m.modes.View()
	case m.journal != nil:
		return m.journal.View()
	}
	return m.menu.View()
}

// Shutdown closes whatever session is still running. Call it after the
// program has exited.
func (m AppModel) Shutdown() error {
	return m.live.close()
}

// RunArcade runs the menu-driven arcade until the user quits.
func RunArcade(ctx context.Context, opts AppOptions) error {
	model := NewAppModel(ctx, opts)
	defer model.Shutdown() //nolint:errcheck // best-effort; the journal may already be closed

	p := tea.NewProgram(
		model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
