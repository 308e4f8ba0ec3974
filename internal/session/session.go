// Package session assembles a running simulation for a host: a bridge over
// the host's surface, the cartridge created against it, and the sinks its
// diagnostics fan out to.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wasm-arcade/internal/bridge"
	"github.com/vovakirdan/wasm-arcade/internal/core"
	"github.com/vovakirdan/wasm-arcade/internal/registry"
	"github.com/vovakirdan/wasm-arcade/internal/storage"
)

// DefaultRecent is how many diagnostics a session keeps for display.
const DefaultRecent = 16

// Options describes the session to launch.
type Options struct {
	Cartridge string
	Config    core.RuntimeConfig
	Surface   bridge.Surface
	Logger    *log.Logger

	// Journal, when set, records the session and every diagnostic.
	Journal *storage.Journal
	User    string

	// Recent bounds the on-screen diagnostic history (DefaultRecent if zero).
	Recent int
}

// Session is one booted simulation.
type Session struct {
	Bridge *bridge.Bridge
	Recent *bridge.RecentSink

	cartridge string
	logger    *log.Logger
	journal   *storage.Journal
	journalID int64
	closed    bool
}

// Launch creates and boots the cartridge. An error is returned only when
// the simulation could not be created. A simulation whose init fails
// still yields a session, already halted, so the host can show why; check
// Bridge.Err.
func Launch(ctx context.Context, opts Options) (*Session, error) {
	if !registry.Exists(opts.Cartridge) {
		return nil, fmt.Errorf("session: unknown cartridge %q", opts.Cartridge)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("cartridge", opts.Cartridge)
	if opts.User != "" {
		logger = logger.With("user", opts.User)
	}
	limit := opts.Recent
	if limit <= 0 {
		limit = DefaultRecent
	}

	s := &Session{
		Recent:    bridge.NewRecentSink(limit),
		cartridge: opts.Cartridge,
		logger:    logger,
	}
	sinks := bridge.MultiSink{bridge.LogSink{Logger: logger}, s.Recent}

	if opts.Journal != nil {
		id, err := opts.Journal.StartSession(opts.Cartridge, opts.User)
		if err != nil {
			logger.Warn("journal unavailable", "error", err)
		} else {
			s.journal, s.journalID = opts.Journal, id
			sinks = append(sinks, opts.Journal.SessionSink(id, func(err error) {
				logger.Warn("journal write failed", "error", err)
			}))
		}
	}

	s.Bridge = bridge.New(opts.Config, opts.Surface, sinks, logger)

	sim, err := registry.Create(ctx, opts.Cartridge, s.Bridge, opts.Config.Seed)
	if err != nil {
		s.endJournal(err)
		return nil, fmt.Errorf("session: %w", err)
	}
	s.Bridge.Attach(sim)

	if err := s.Bridge.Boot(ctx); err != nil {
		logger.Error("boot failed", "error", err)
		return s, nil
	}
	w, h := s.Bridge.CanvasSize()
	logger.Debug("session booted", "canvas", fmt.Sprintf("%dx%d", w, h),
		"input", opts.Config.Input, "step", opts.Config.Step)
	return s, nil
}

// Cartridge returns the cartridge ID.
func (s *Session) Cartridge() string {
	return s.cartridge
}

// JournalID returns the journal session ID, or 0 without a journal.
func (s *Session) JournalID() int64 {
	return s.journalID
}

// LastProblem returns the newest error or fatal diagnostic, if any.
func (s *Session) LastProblem() (bridge.Entry, bool) {
	return s.Recent.Last(bridge.LevelError)
}

// Close releases the simulation and ends the journal session. It is safe
// to call more than once.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	closeErr := s.Bridge.Close(ctx)
	s.logger.Debug("session closed", "frames", s.Bridge.Frames(), "halted", s.Bridge.Err() != nil)
	return errors.Join(closeErr, s.endJournal(s.Bridge.Err()))
}

func (s *Session) endJournal(runErr error) error {
	if s.journal == nil {
		return nil
	}
	var frames uint64
	if s.Bridge != nil {
		frames = s.Bridge.Frames()
	}
	return s.journal.EndSession(s.journalID, frames, runErr)
}
