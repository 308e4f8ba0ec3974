package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wasm-arcade/internal/config"
	"github.com/vovakirdan/wasm-arcade/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive cartridge picker",
	Long: `Opens a menu listing every cartridge. Picking one shows the input
model and step mode selector, then starts the cartridge. Esc returns to
the menu; Tab opens the session journal.`,
	Annotations: map[string]string{ownsTerminal: "true"},
	Run:         runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) {
	cfg := app.runtime
	cfg.ScreenW, cfg.ScreenH = terminalSize()

	journal := app.openJournal()

	shots, err := config.ExpandPath(defaultScreenshotDir)
	if err != nil {
		shots = ""
	}

	err = tui.RunArcade(cmd.Context(), tui.AppOptions{
		Config:        cfg,
		Logger:        app.logger,
		Journal:       journal,
		User:          currentUser(),
		ScreenshotDir: shots,
	})
	closeJournal(journal)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
