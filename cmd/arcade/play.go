package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wasm-arcade/internal/config"
	"github.com/vovakirdan/wasm-arcade/internal/platform/tui"
	"github.com/vovakirdan/wasm-arcade/internal/registry"
	"github.com/vovakirdan/wasm-arcade/internal/session"
	"github.com/vovakirdan/wasm-arcade/internal/wasmhost"
)

const defaultScreenshotDir = "~/.arcade/screenshots"

var playCmd = &cobra.Command{
	Use:   "play <cartridge>",
	Short: "Play a cartridge in the terminal",
	Long: `Start the specified cartridge in the terminal. The argument is a
cartridge ID from 'arcade list' or a path to a .wasm file.

Controls:
  Arrows/WASD/HJKL  - Directions
  Enter/Space       - Accept
  Mouse drag        - Swipe
  Ctrl+S            - Save a screenshot
  Esc               - Back
  Q/Ctrl+C          - Quit

Examples:
  arcade play snake
  arcade play snake --input polled
  arcade play ./build/tetris.wasm --step fixed --fps 30`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{ownsTerminal: "true"},
	Run:         runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	id := resolveCartridge(ctx, args[0])

	cfg := app.runtime
	cfg.ScreenW, cfg.ScreenH = terminalSize()

	journal := app.openJournal()

	shots, err := config.ExpandPath(defaultScreenshotDir)
	if err != nil {
		shots = ""
	}

	runErr := tui.Run(ctx, tui.GameOptions{
		Session: session.Options{
			Cartridge: id,
			Config:    cfg,
			Logger:    app.logger,
			Journal:   journal,
			User:      currentUser(),
		},
		Cols:          cfg.ScreenW,
		Rows:          cfg.ScreenH,
		ScreenshotDir: shots,
	})

	// Close journal before potential exit
	closeJournal(journal)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running cartridge: %v\n", runErr)
		os.Exit(1)
	}
}

// resolveCartridge returns the registry ID for arg. A path to a .wasm file
// is loaded and registered on the spot.
func resolveCartridge(ctx context.Context, arg string) string {
	if !strings.HasSuffix(arg, ".wasm") {
		requireCartridge(arg)
		return arg
	}

	cacheDir, err := config.ExpandPath(app.cfg.Cartridges.CacheDir)
	if err != nil {
		cacheDir = ""
	}
	engine, err := wasmhost.LoadFile(ctx, arg, wasmhost.Options{
		CacheDir: cacheDir,
		Logger:   app.logger.WithPrefix("wasm"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading cartridge: %v\n", err)
		os.Exit(1)
	}
	if registry.Exists(engine.Name()) {
		// Already discovered from the cartridge directory.
		_ = engine.Close(ctx)
		return engine.Name()
	}
	if err := registry.RegisterEngine(engine, arg); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering cartridge: %v\n", err)
		os.Exit(1)
	}
	return engine.Name()
}
