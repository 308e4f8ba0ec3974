package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wasm-arcade/internal/core"
	"github.com/vovakirdan/wasm-arcade/internal/session"
)

// statusRows is the number of terminal rows below the canvas.
const statusRows = 1

// GameOptions configures a game view.
type GameOptions struct {
	Session session.Options
	Cols    int // terminal width
	Rows    int // terminal height, including the status line

	Renderer *lipgloss.Renderer
	// ScreenshotDir enables ctrl+s when set.
	ScreenshotDir string
	// Standalone makes "back" quit the program instead of returning to a menu.
	Standalone bool
}

// GameModel drives one simulation session from Bubble Tea: ticks are frame
// callbacks, key and mouse messages feed the bridge's input tracker.
type GameModel struct {
	ctx      context.Context
	sess     *session.Session
	surface  *ScreenSurface
	renderer *lipgloss.Renderer
	keys     KeyMap
	help     help.Model
	holds    *keyHolds
	opts     GameOptions

	loop       uint64
	start      time.Time
	pointer    bool // a contact is in progress
	status     string
	quitting   bool
	backToMenu bool
}

// OpenGame launches a session sized to the terminal. The caller owns the
// returned model's session and must Close it.
func OpenGame(ctx context.Context, opts GameOptions) (GameModel, error) {
	cfg := opts.Session.Config
	rows := max(1, opts.Rows-statusRows)
	surface := NewScreenSurface(max(1, opts.Cols), rows, cfg.CanvasW, cfg.CanvasH)
	opts.Session.Surface = surface

	sess, err := session.Launch(ctx, opts.Session)
	if err != nil {
		return GameModel{}, err
	}
	w, h := sess.Bridge.CanvasSize()
	surface.SetCanvas(int(w), int(h))

	hp := help.New()
	hp.ShowAll = false
	hp.Width = opts.Cols

	return GameModel{
		ctx:      ctx,
		sess:     sess,
		surface:  surface,
		renderer: opts.Renderer,
		keys:     DefaultKeyMap(),
		help:     hp,
		holds:    newKeyHolds(cfg.KeyHoldMS),
		opts:     opts,
		loop:     nextLoopID(),
	}, nil
}

// Session returns the running session.
func (m GameModel) Session() *session.Session {
	return m.sess
}

// Init starts the frame loop.
func (m GameModel) Init() tea.Cmd {
	m.sess.Bridge.Start(nil)
	return tickCmd(m.loop, m.sess.Bridge.Config().TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.surface.Resize(max(1, msg.Width), max(1, msg.Height-statusRows))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick(msg.Time)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		if m.opts.Standalone {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		m.status = m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	code, ok := m.keys.Code(msg)
	if !ok {
		return m, nil
	}
	input := m.sess.Bridge.Input()
	if input.Model() == core.InputEdge {
		input.KeyDown(code)
		return m, nil
	}
	if m.holds.press(code, time.Now()) {
		input.KeyDown(code)
	}
	return m, nil
}

// handleMouse turns left-button contacts into gesture samples in canvas
// coordinates.
func (m *GameModel) handleMouse(msg tea.MouseMsg) {
	x, y := m.surface.Scale().Unproject(msg.X, msg.Y)
	ts := m.stamp(time.Now())
	input := m.sess.Bridge.Input()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.pointer = true
		input.PointerDown(x, y, ts)
	case tea.MouseActionMotion:
		if m.pointer {
			input.PointerMove(x, y)
		}
	case tea.MouseActionRelease:
		if !m.pointer {
			return
		}
		m.pointer = false
		input.PointerMove(x, y)
		input.PointerUp(ts)
	}
}

// handleTick runs one frame at the tick's timestamp.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	input := m.sess.Bridge.Input()
	for _, code := range m.holds.expire(now) {
		input.KeyUp(code)
	}
	if !m.sess.Bridge.Tick(m.ctx, m.stamp(now)) {
		return m, nil
	}
	return m, tickCmd(m.loop, m.sess.Bridge.Config().TickRate)
}

// stamp converts wall time to the millisecond timestamps the bridge uses.
func (m *GameModel) stamp(now time.Time) float64 {
	if m.start.IsZero() {
		m.start = now
	}
	return float64(now.Sub(m.start).Microseconds()) / 1000
}

// saveScreenshot writes the current cell grid as plain text and returns a
// status message.
func (m GameModel) saveScreenshot() string {
	if m.opts.ScreenshotDir == "" {
		return "screenshots are disabled"
	}
	if err := os.MkdirAll(m.opts.ScreenshotDir, 0o755); err != nil {
		return fmt.Sprintf("screenshot failed: %v", err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.sess.Cartridge(), timestamp)
	path := filepath.Join(m.opts.ScreenshotDir, filename)
	if err := os.WriteFile(path, []byte(m.surface.Screen().String()), 0o600); err != nil {
		return fmt.Sprintf("screenshot failed: %v", err)
	}
	return "saved " + path
}

// View renders the canvas and the status line.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	var b strings.Builder
	b.WriteString(RenderScreen(m.renderer, m.surface.Screen()))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m GameModel) statusLine() string {
	r := m.renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	width := m.surface.Screen().Width()

	if m.sess.Bridge.Halted() {
		text := "halted"
		if e, ok := m.sess.LastProblem(); ok {
			text = "halted: " + e.Message
		}
		text += "  (esc: back, q: quit)"
		return r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).
			MaxWidth(width).Render(text)
	}

	if m.help.ShowAll {
		return m.help.View(m.keys)
	}
	left := fmt.Sprintf(" %s  frame %d", m.sess.Cartridge(), m.sess.Bridge.Frames())
	if m.status != "" {
		left += "  " + m.status
	}
	return r.NewStyle().Foreground(lipgloss.Color("241")).MaxWidth(width).
		Render(left + "  " + m.help.View(m.keys))
}

// Close ends the session.
func (m GameModel) Close() error {
	return m.sess.Close(m.ctx)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays one cartridge in the terminal until the user quits.
func Run(ctx context.Context, opts GameOptions) error {
	opts.Standalone = true
	model, err := OpenGame(ctx, opts)
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()
	return err
}
