package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wasm-arcade/internal/platform/gui"
	"github.com/vovakirdan/wasm-arcade/internal/registry"
	"github.com/vovakirdan/wasm-arcade/internal/session"
)

var flagZoom float64

var windowCmd = &cobra.Command{
	Use:   "window <cartridge>",
	Short: "Play a cartridge in a desktop window",
	Long: `Start the specified cartridge in a window. The canvas keeps its
aspect ratio and is letterboxed when the window is resized.

Requires a binary built with -tags ebiten.

Examples:
  arcade window snake
  arcade window ./build/tetris.wasm --zoom 1`,
	Args: cobra.ExactArgs(1),
	Run:  runWindow,
}

func init() {
	windowCmd.Flags().Float64Var(&flagZoom, "zoom", 0.5, "Initial window size relative to the canvas")
}

func runWindow(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	id := resolveCartridge(ctx, args[0])

	journal := app.openJournal()

	title := id
	if info, ok := registry.Lookup(id); ok {
		title = info.Title
	}

	err := gui.Run(ctx, gui.Options{
		Session: session.Options{
			Cartridge: id,
			Config:    app.runtime,
			Logger:    app.logger,
			Journal:   journal,
			User:      currentUser(),
		},
		Title: title,
		Zoom:  flagZoom,
	})
	closeJournal(journal)

	if errors.Is(err, gui.ErrNoWindow) {
		fmt.Fprintln(os.Stderr, "Error: this binary was built without window support (rebuild with -tags ebiten)")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running cartridge: %v\n", err)
		os.Exit(1)
	}
}
