package main

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/wasm-arcade/internal/config"
	"github.com/vovakirdan/wasm-arcade/internal/core"
	"github.com/vovakirdan/wasm-arcade/internal/registry"
	"github.com/vovakirdan/wasm-arcade/internal/storage"
	"github.com/vovakirdan/wasm-arcade/internal/wasmhost"
)

// ownsTerminal marks commands whose UI takes over the terminal; their logs
// go to a file unless --log-file says otherwise.
const ownsTerminal = "owns-terminal"

const defaultLogFile = "~/.arcade/arcade.log"

// env is the state every subcommand shares once the root command has
// loaded configuration.
type env struct {
	cfg     config.BridgeConfig
	runtime core.RuntimeConfig
	logger  *log.Logger
	logFile *os.File
}

var app env

// setup loads the config, applies flag overrides, builds the logger and
// registers WebAssembly cartridges.
func (e *env) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.TickRate = flagFPS
	}
	if flagInput != "" {
		cfg.InputModel = flagInput
	}
	if flagStep != "" {
		cfg.StepMode = flagStep
	}
	if flagCartridges != "" {
		cfg.Cartridges.Dir = flagCartridges
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rt, err := cfg.Runtime()
	if err != nil {
		return err
	}
	rt.Seed = flagSeed
	e.cfg = cfg
	e.runtime = rt

	if err := e.openLogger(cmd.Annotations[ownsTerminal] != ""); err != nil {
		return err
	}

	return e.discover(cmd.Context())
}

func (e *env) openLogger(toFile bool) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	path := flagLogFile
	if path == "" && toFile {
		path = defaultLogFile
	}

	out := os.Stderr
	if path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(expanded, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		e.logFile = f
		out = f
	}

	e.logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "arcade",
		Level:           level,
	})
	return nil
}

// discover registers every cartridge found in the configured directory.
// Broken cartridges are logged and skipped.
func (e *env) discover(ctx context.Context) error {
	dir, err := config.ExpandPath(e.cfg.Cartridges.Dir)
	if err != nil {
		return err
	}
	cacheDir, err := config.ExpandPath(e.cfg.Cartridges.CacheDir)
	if err != nil {
		return err
	}

	ids, err := registry.Discover(ctx, dir, wasmhost.Options{
		CacheDir: cacheDir,
		Logger:   e.logger.WithPrefix("wasm"),
	})
	if err != nil {
		e.logger.Warn("some cartridges failed to load", "dir", dir, "err", err)
	}
	if len(ids) > 0 {
		e.logger.Debug("cartridges discovered", "dir", dir, "ids", ids)
	}
	return nil
}

// openJournal opens the configured journal. A disabled or unreadable
// journal yields nil; sessions run without one.
func (e *env) openJournal() *storage.Journal {
	if !e.cfg.Journal.Enabled {
		return nil
	}
	j, err := storage.Open(e.cfg.Journal.Path)
	if err != nil {
		e.logger.Warn("journal unavailable", "path", e.cfg.Journal.Path, "err", err)
		return nil
	}
	return j
}

func closeJournal(j *storage.Journal) {
	if j == nil {
		return
	}
	if err := j.Close(); err != nil {
		app.logger.Warn("closing journal", "err", err)
	}
}

func (e *env) teardown() {
	if e.logFile != nil {
		_ = e.logFile.Close()
		e.logFile = nil
	}
}

// terminalSize returns the size of stdout, or 80x24 when it is not a
// terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// currentUser names the local player in the journal.
func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}

// requireCartridge exits with a hint when id is not registered.
func requireCartridge(id string) {
	if registry.Exists(id) {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: unknown cartridge %q\n", id)
	fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available cartridges.")
	os.Exit(1)
}
